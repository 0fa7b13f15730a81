package crawl

import (
	"errors"
	"fmt"
)

// Sentinel errors for traversal arguments.
var (
	ErrInvalidDepth = errors.New("depth must be >= 0")
	ErrEmptyStart   = errors.New("start node is required")
)

// NodeError attributes a traversal failure to the node being expanded.
type NodeError struct {
	Node  string
	Depth int
	Err   error
}

// Error implements the error interface.
func (e *NodeError) Error() string {
	return fmt.Sprintf("expanding %q at depth %d: %v", e.Node, e.Depth, e.Err)
}

// Unwrap returns the fetch or decode error.
func (e *NodeError) Unwrap() error { return e.Err }

// FailedNode returns the node a traversal error is attributed to, if any.
func FailedNode(err error) (string, bool) {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.Node, true
	}
	return "", false
}

/*
Package errors provides semantic error types for the DocStore library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound            = errors.New("document not found")
	    ErrInvalidInput        = errors.New("invalid input")
	    ErrInvalidContinuation = errors.New("invalid continuation token")
	    ErrFeedRangeGone       = errors.New("feed range gone")
	    ErrEmptyResolution     = errors.New("partition resolution empty")
	)

Usage:

	// Check error type
	page, err := pager.NextPage(ctx)
	if err != nil {
	    if errors.IsInvalidContinuation(err) {
	        // Token is unusable; restart the cursor
	        return nil, fmt.Errorf("continuation is corrupt: %w", err)
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("Document", "123")
	err := errors.NewFeedRangeGoneError("orders", "", "FF")
	err := errors.NewEmptyResolutionError("orders", `["user-1"]`)

ErrInvalidContinuation is terminal: the token can never become valid again.
ErrFeedRangeGone is recoverable: the owning cursor refreshes its ranges
against current topology and the caller retries the same logical page.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors

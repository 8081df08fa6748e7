/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package changefeed

import (
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
)

// ContinuationToken pairs one sub-range of a cursor's feed range with the
// opaque position marker of progress inside it. The marker is only valid
// against the physical partition currently owning the range.
type ContinuationToken struct {
	Range feedrange.Range `json:"range"`
	Token string          `json:"token,omitempty"`
}

// CompositeContinuation owns the ordered set of continuation tokens covering
// one feed range. Invariant: the union of the token ranges equals the feed
// range exactly, gap-free and non-overlapping, before and after any split or
// merge adjustment. The token slice is exclusively owned; tokens are never
// aliased across instances.
//
// The head token is the active one. A token is draining while its range may
// still hold unconsumed changes; once a read reports no changes beyond the
// current position the token is exhausted for this sweep and rotates to the
// tail.
type CompositeContinuation struct {
	feedRange feedrange.Range
	tokens    []ContinuationToken
}

// NewCompositeContinuation starts a composite continuation with a single
// unpositioned token covering the whole feed range.
func NewCompositeContinuation(fr feedrange.Range) *CompositeContinuation {
	return &CompositeContinuation{
		feedRange: fr,
		tokens:    []ContinuationToken{{Range: fr}},
	}
}

// newCompositeFromTokens rebuilds a composite continuation from serialized
// tokens, enforcing the coverage invariant.
func newCompositeFromTokens(fr feedrange.Range, tokens []ContinuationToken) (*CompositeContinuation, error) {
	if len(tokens) == 0 {
		return nil, errors.NewInvalidContinuationError("continuation has no ranges")
	}
	ranges := make([]feedrange.Range, len(tokens))
	for i, t := range tokens {
		ranges[i] = t.Range
	}
	if !feedrange.ExactCover(fr, ranges) {
		return nil, errors.NewInvalidContinuationError("continuation ranges do not cover the feed range exactly")
	}
	owned := make([]ContinuationToken, len(tokens))
	copy(owned, tokens)
	return &CompositeContinuation{feedRange: fr, tokens: owned}, nil
}

// FeedRange returns the feed range the continuation covers.
func (c *CompositeContinuation) FeedRange() feedrange.Range {
	return c.feedRange
}

// Active returns the token currently being drained.
func (c *CompositeContinuation) Active() ContinuationToken {
	return c.tokens[0]
}

// Tokens returns a copy of the token queue, active first.
func (c *CompositeContinuation) Tokens() []ContinuationToken {
	out := make([]ContinuationToken, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// ApplyServerResponse records the position returned by a successful page for
// the active sub-range. Applying the same token again is a no-op.
func (c *CompositeContinuation) ApplyServerResponse(token string) {
	c.tokens[0].Token = token
}

// MoveToNext rotates the active token to the tail, making the next sub-range
// active.
func (c *CompositeContinuation) MoveToNext() {
	if len(c.tokens) < 2 {
		return
	}
	head := c.tokens[0]
	copy(c.tokens, c.tokens[1:])
	c.tokens[len(c.tokens)-1] = head
}

// ReplaceActive atomically replaces the active token with one token per
// child range, each carrying the active token's prior position. The children
// must tile the active range exactly; the whole-range invariant is re-checked
// after the in-place splice.
func (c *CompositeContinuation) ReplaceActive(children []feedrange.Range) error {
	active := c.tokens[0]
	if !feedrange.ExactCover(active.Range, children) {
		return errors.NewFeedRangeGoneError("", active.Range.MinInclusive, active.Range.MaxExclusive)
	}

	replacement := make([]ContinuationToken, 0, len(c.tokens)-1+len(children))
	for _, child := range children {
		replacement = append(replacement, ContinuationToken{Range: child, Token: active.Token})
	}
	replacement = append(replacement, c.tokens[1:]...)

	all := make([]feedrange.Range, len(replacement))
	for i, t := range replacement {
		all[i] = t.Range
	}
	if !feedrange.ExactCover(c.feedRange, all) {
		return errors.NewInvalidContinuationError("replacement ranges break feed range coverage")
	}
	c.tokens = replacement
	return nil
}

// RangeCount returns the number of sub-ranges currently held.
func (c *CompositeContinuation) RangeCount() int {
	return len(c.tokens)
}

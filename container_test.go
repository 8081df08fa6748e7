/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"testing"

	"github.com/suparena/docstore/changefeed"
	"github.com/suparena/docstore/datastore/mock"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/feedrange"
	"github.com/suparena/docstore/routing"
	"github.com/suparena/docstore/storagemodels"
)

func ordersDefinition() storagemodels.PartitionKeyDefinition {
	return storagemodels.PartitionKeyDefinition{
		Paths:   []string{"/userId"},
		Kind:    storagemodels.PartitionKeyKindHash,
		Version: 2,
	}
}

func newOrdersContainer(t *testing.T) (*Container, *mock.Backend, *mock.FeedReader) {
	t.Helper()
	provider := routing.NewStaticProvider()
	if err := provider.SetTopology("orders", []routing.PhysicalPartition{
		{ID: "p0", Range: feedrange.Full()},
	}); err != nil {
		t.Fatalf("SetTopology failed: %v", err)
	}

	backend := mock.New()
	feed := mock.NewFeedReader()
	c, err := NewContainer("orders", ordersDefinition(), backend, feed, provider)
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	return c, backend, feed
}

func TestNewContainer(t *testing.T) {
	t.Run("RequiresID", func(t *testing.T) {
		_, err := NewContainer("", ordersDefinition(), mock.New(), mock.NewFeedReader(), routing.NewStaticProvider())
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for empty id, got %v", err)
		}
	})

	t.Run("RejectsBadDefinition", func(t *testing.T) {
		def := storagemodels.PartitionKeyDefinition{Kind: storagemodels.PartitionKeyKindHash, Version: 2}
		_, err := NewContainer("orders", def, mock.New(), mock.NewFeedReader(), routing.NewStaticProvider())
		if !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for pathless definition, got %v", err)
		}
	})
}

func TestContainerReadMany(t *testing.T) {
	c, backend, _ := newOrdersContainer(t)
	pk := storagemodels.NewPartitionKey("user-1")
	backend.PutDocument("p0", pk, storagemodels.Document{"id": "o1", "userId": "user-1"})
	backend.PutDocument("p0", pk, storagemodels.Document{"id": "o2", "userId": "user-1"})

	result, err := c.ReadMany(context.Background(), []storagemodels.ReadManyItem{
		{ID: "o1", PartitionKey: pk},
		{ID: "o2", PartitionKey: pk},
	})
	if err != nil {
		t.Fatalf("ReadMany failed: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(result.Items))
	}
	if result.Items[0].ID() != "o1" || result.Items[1].ID() != "o2" {
		t.Errorf("Expected order o1,o2, got %s,%s", result.Items[0].ID(), result.Items[1].ID())
	}
}

func TestContainerChangeFeed(t *testing.T) {
	ctx := context.Background()

	t.Run("FullRange", func(t *testing.T) {
		c, _, feed := newOrdersContainer(t)
		feed.EnqueuePage("p0", &storagemodels.FeedPage{
			Documents:         []storagemodels.Document{{"id": "o1"}},
			ContinuationToken: "etag-1",
		})

		pager, err := c.ChangeFeed(ChangeFeedOptions{MaxItemCount: 50})
		if err != nil {
			t.Fatalf("ChangeFeed failed: %v", err)
		}
		page, err := pager.NextPage(ctx)
		if err != nil {
			t.Fatalf("NextPage failed: %v", err)
		}
		if len(page.Documents) != 1 {
			t.Errorf("Expected 1 document, got %d", len(page.Documents))
		}
		reqs := feed.Requests()
		if len(reqs) != 1 || reqs[0].MaxItemCount != 50 {
			t.Errorf("Expected one request with page size 50, got %v", reqs)
		}
	})

	t.Run("PartitionKeyScoped", func(t *testing.T) {
		c, _, _ := newOrdersContainer(t)
		pk := storagemodels.NewPartitionKey("user-1")

		pager, err := c.ChangeFeed(ChangeFeedOptions{PartitionKey: &pk})
		if err != nil {
			t.Fatalf("ChangeFeed failed: %v", err)
		}
		state, ok := pager.State().(*changefeed.StateV2)
		if !ok {
			t.Fatalf("Expected *changefeed.StateV2, got %T", pager.State())
		}
		want, err := feedrange.FromPartitionKey(ordersDefinition(), pk)
		if err != nil {
			t.Fatalf("FromPartitionKey failed: %v", err)
		}
		if !state.FeedRange().Equal(want) {
			t.Errorf("Expected pk-scoped range %s, got %s", want, state.FeedRange())
		}
	})

	t.Run("FeedRangeScoped", func(t *testing.T) {
		c, _, _ := newOrdersContainer(t)
		fr := feedrange.Range{MinInclusive: "40", MaxExclusive: "80"}

		pager, err := c.ChangeFeed(ChangeFeedOptions{FeedRange: &fr})
		if err != nil {
			t.Fatalf("ChangeFeed failed: %v", err)
		}
		if !pager.State().ActiveRange().Equal(fr) {
			t.Errorf("Expected active range %s, got %s", fr, pager.State().ActiveRange())
		}
	})

	t.Run("ResumeFromContinuation", func(t *testing.T) {
		c, _, _ := newOrdersContainer(t)

		pager, err := c.ChangeFeed(ChangeFeedOptions{})
		if err != nil {
			t.Fatalf("ChangeFeed failed: %v", err)
		}
		token, err := pager.Continuation()
		if err != nil {
			t.Fatalf("Continuation failed: %v", err)
		}

		resumed, err := c.ChangeFeed(ChangeFeedOptions{Continuation: token})
		if err != nil {
			t.Fatalf("ChangeFeed resume failed: %v", err)
		}
		if resumed.State().ContainerID() != "orders" {
			t.Errorf("Expected container orders, got %q", resumed.State().ContainerID())
		}
	})

	t.Run("RejectsForeignContinuation", func(t *testing.T) {
		c, _, _ := newOrdersContainer(t)
		foreign, err := changefeed.NewV2FullRange("payments", storagemodels.StartFromBeginning()).ToSerialized()
		if err != nil {
			t.Fatalf("ToSerialized failed: %v", err)
		}
		if _, err := c.ChangeFeed(ChangeFeedOptions{Continuation: foreign}); !errors.IsValidationError(err) {
			t.Errorf("Expected validation error for a foreign continuation, got %v", err)
		}
	})

	t.Run("RejectsMalformedContinuation", func(t *testing.T) {
		c, _, _ := newOrdersContainer(t)
		if _, err := c.ChangeFeed(ChangeFeedOptions{Continuation: "not-a-token"}); !errors.IsInvalidContinuation(err) {
			t.Errorf("Expected invalid continuation error, got %v", err)
		}
	})
}

func TestStorageManager(t *testing.T) {
	sm := NewStorageManager()
	c, _, _ := newOrdersContainer(t)

	if err := sm.RegisterContainer(c); err != nil {
		t.Fatalf("RegisterContainer failed: %v", err)
	}
	if err := sm.RegisterContainer(c); err == nil {
		t.Error("Expected error on duplicate registration")
	}

	got, err := sm.GetContainer("orders")
	if err != nil {
		t.Fatalf("GetContainer failed: %v", err)
	}
	if got != c {
		t.Error("Expected the registered container back")
	}

	if _, err := sm.GetContainer("missing"); err == nil {
		t.Error("Expected error for unknown container")
	}
}

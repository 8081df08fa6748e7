/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/storagemodels"
)

type order struct {
	ID     string  `mapstructure:"id"`
	UserID string  `mapstructure:"userId"`
	Total  float64 `mapstructure:"total"`
}

func TestDecodeDocument(t *testing.T) {
	t.Run("StructuralDecode", func(t *testing.T) {
		doc := storagemodels.Document{"id": "o1", "userId": "user-1", "total": float64(42)}
		got, err := DecodeDocument[order](doc)
		if err != nil {
			t.Fatalf("DecodeDocument failed: %v", err)
		}
		if got.ID != "o1" || got.UserID != "user-1" || got.Total != 42 {
			t.Errorf("Expected decoded order, got %+v", got)
		}
	})

	t.Run("RegisteredDecoder", func(t *testing.T) {
		registry.RegisterDecoder("decoded-order", func(doc storagemodels.Document) (interface{}, error) {
			return &order{ID: doc.ID(), UserID: "from-decoder"}, nil
		})

		doc := storagemodels.Document{"id": "o2", "type": "decoded-order"}
		got, err := DecodeDocument[order](doc)
		if err != nil {
			t.Fatalf("DecodeDocument failed: %v", err)
		}
		if got.UserID != "from-decoder" {
			t.Errorf("Expected the registered decoder to run, got %+v", got)
		}
	})

	t.Run("FailingDecoder", func(t *testing.T) {
		registry.RegisterDecoder("broken-order", func(doc storagemodels.Document) (interface{}, error) {
			return nil, fmt.Errorf("corrupt payload")
		})

		doc := storagemodels.Document{"id": "o3", "type": "broken-order"}
		if _, err := DecodeDocument[order](doc); err == nil {
			t.Error("Expected the decoder failure to propagate")
		}
	})

	t.Run("UnregisteredTypeFallsBack", func(t *testing.T) {
		doc := storagemodels.Document{"id": "o4", "type": "unknown-kind", "userId": "user-4"}
		got, err := DecodeDocument[order](doc)
		if err != nil {
			t.Fatalf("DecodeDocument failed: %v", err)
		}
		if got.ID != "o4" || got.UserID != "user-4" {
			t.Errorf("Expected structural fallback, got %+v", got)
		}
	})
}

func TestTypedReaderReadMany(t *testing.T) {
	c, backend, _ := newOrdersContainer(t)
	pk := storagemodels.NewPartitionKey("user-1")
	backend.PutDocument("p0", pk, storagemodels.Document{"id": "o1", "userId": "user-1", "total": float64(10)})
	backend.PutDocument("p0", pk, storagemodels.Document{"id": "o2", "userId": "user-1", "total": float64(20)})

	reader := NewTypedReader[order](c)
	orders, result, err := reader.ReadMany(context.Background(), []storagemodels.ReadManyItem{
		{ID: "o1", PartitionKey: pk},
		{ID: "o2", PartitionKey: pk},
	})
	if err != nil {
		t.Fatalf("ReadMany failed: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != "o1" || orders[1].ID != "o2" {
		t.Errorf("Expected order o1,o2, got %s,%s", orders[0].ID, orders[1].ID)
	}
	if orders[1].Total != 20 {
		t.Errorf("Expected total 20, got %f", orders[1].Total)
	}
	if result == nil || len(result.Items) != 2 {
		t.Error("Expected the raw result alongside the typed slice")
	}
}

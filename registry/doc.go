/*
Package registry manages container metadata registration for DocStore.

The registry system enables:
  - Effective partition key computation without a metadata round-trip
  - Typed decoding of schemaless documents
  - Registration through init() functions or generated code

Partition Key Definition Registry:
Associates container ids with their partition key definitions:

	registry.RegisterPartitionKeyDefinition("orders", storagemodels.PartitionKeyDefinition{
	    Paths:   []string{"/userId"},
	    Kind:    storagemodels.PartitionKeyKindHash,
	    Version: 2,
	})

Decoder Registry:
Maps document type names to decode functions:

	registry.RegisterDecoder("Order", func(doc storagemodels.Document) (interface{}, error) {
	    var o Order
	    err := mapstructure.Decode(doc, &o)
	    return &o, err
	})

The registry is thread-safe and should be populated during initialization.
*/
package registry

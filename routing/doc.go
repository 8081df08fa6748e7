/*
Package routing resolves feed ranges to the physical partitions currently
hosting them.

Provider is the single contract the change-feed state machine and the
read-many engine depend on. Two implementations ship with the library:

  - StaticProvider: an in-memory topology, settable programmatically or from
    a YAML file, with split/merge mutations for exercising topology changes.
  - CachedProvider: an LRU-caching decorator for any Provider; entries are
    published atomically and can be invalidated per range after a feed-range
    gone signal.

Production deployments adapt their store's metadata endpoint behind Provider.
*/
package routing

/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key, chosen by the extension (it may be composite, like
maker address followed by a nonce).
* It may possess secondary indexes (1:N), maintained on every write.
* Easy queries for one, for a key prefix and for an index value.

Buckets write directly to the KVStore, there is no intermediate object
wrapper. Models are anything that can serialize itself and validate its
state.
*/
package orm

/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary index, and may possess secondary indexes (1:1 or 1:N).
* Models are serialized with gogo/protobuf, using the struct field tags.

Do not use so much reflection magic. Better do stuff compile-time static,
even if it is a bit of boilerplate.
*/
package orm

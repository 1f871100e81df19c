// Package app composes the shop API: configuration, storage and denylist
// backends, every resource module, and the HTTP pipeline in front of them.
//
// The pipeline runs request id, real IP, request logging, metrics, the
// terminal failure handler and identity decoding on every request. Each
// route then passes its authorization gate and validation gate before the
// handler runs. Unmatched paths get a 404 envelope naming the path.
package app

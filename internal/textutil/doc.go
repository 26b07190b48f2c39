// Package textutil sanitizes backend-supplied names before they touch the
// local filesystem.
package textutil

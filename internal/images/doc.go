// Package images holds the site's image maintenance utilities: a batch
// optimizer that recompresses and bounds the dimensions of every image under
// the images directory, and a relinker that points legacy raster references
// in the markup at the site's webp library.
package images

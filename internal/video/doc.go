// Package video adapts gocv capture devices, video files and image files to
// the pipeline's source and sink interfaces.
package video

// Package segmenter slices a source recording into bounded audio segments.
//
// Segmenting is pure arithmetic over the probed duration (Plan) followed by
// one ffmpeg extraction per span (Split). Extracted segments live in a scratch
// directory that the caller releases through the returned cleanup func once
// every segment has been consumed.
package segmenter

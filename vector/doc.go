// Package vector turns conditioning results into line features and writes
// them as ESRI shapefiles.
//
// Streams traces the stream network: every cell with accumulation at or
// above a threshold belongs to a stream, and a stream line starts wherever
// no stream cell or more than one stream cell drains into a cell. Burned
// culvert ends also start a line. Each line follows unit flow directions
// until it reaches the next start point, and is simplified with the
// Ramer–Douglas–Peucker algorithm.
package vector

// Package breach implements least-cost depression breaching by priority flood.
//
// Breach assigns a flow direction to every cell of an elevation grid and
// lowers terrain by the smallest amount needed so that every interior cell
// drains to the border without meeting a strict local rise.
//
// Algorithm:
//
//  1. Level every linked-cell group (culvert ends) to its lowest member.
//  2. Find local minima: cells with no strictly lower 8-neighbour. Minima on
//     the border seed the queue; interior minima are pending pits.
//  3. Pop the lowest cell c from a min-heap keyed by (elevation, insertion
//     sequence). Visit its in-bounds neighbours in ScanOffsets order, then the
//     cells linked to c. Every unvisited neighbour n gets the direction c-n and
//     is pushed.
//  4. When n is a pending pit, breach it: starting from n, follow the assigned
//     directions downstream and lower every cell that is higher than n to
//     exactly n's elevation, marking it carved. The walk stops at the first
//     cell already at or below that elevation, or when a direction no longer
//     moves.
//
// Because cells leave the heap in ascending elevation order, the first route
// that reaches a pit is the cheapest one, and the breach never raises a cell
// or lowers one below the pit it drains.
//
// Directions set through culvert links may be longer than one cell.
//
// Complexity:
//
//   - Time:  O(N log N), N = W×H.
//   - Space: O(N).
package breach

// Package simulation advances a set of random walks over a shared
// occupancy grid, one tick at a time.
//
// A Simulation owns the grid and the ordered list of walks. Each Tick steps
// every walk once, in insertion order, so walks added earlier claim
// contested cells before later ones evaluate their candidates in the same
// tick. Ticks must be issued serially by a single driver.
//
// Property tests drive simulations through the scenario harness in the
// simtest subpackage.
package simulation

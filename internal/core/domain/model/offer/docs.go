// Package offer models dispatch proposals. An offer holds one order out to
// one rider for a bounded response window and resolves exactly once.
package offer

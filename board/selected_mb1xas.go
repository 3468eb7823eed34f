//go:build (rp2040 || rp2350) && board_sx1276mb1xas && !board_murata

package board

var Selected = MB1xAS

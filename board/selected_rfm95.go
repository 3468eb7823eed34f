//go:build (rp2040 || rp2350) && !board_murata && !board_sx1276mb1xas

package board

var Selected = RFM95

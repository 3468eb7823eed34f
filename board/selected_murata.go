//go:build (rp2040 || rp2350) && board_murata

package board

var Selected = Murata

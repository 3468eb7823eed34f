//go:build !(rp2040 || rp2350)

package board

var Selected = Host

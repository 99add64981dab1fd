//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseVehicleID checks that parsing never panics and that accepted IDs
// round-trip unchanged.
func FuzzParseVehicleID(f *testing.F) {
	f.Add("")
	f.Add("101")
	f.Add("S77")
	f.Add("'; DROP TABLE transport;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("A320\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseVehicleID(input)
		if err != nil {
			return
		}
		roundTrip, err2 := ParseVehicleID(id.String())
		if err2 != nil {
			t.Errorf("valid ID failed round-trip: %v", err2)
		}
		if roundTrip != id {
			t.Error("round-trip changed ID value")
		}
		if !utf8.ValidString(input) {
			t.Error("non-UTF8 input was accepted")
		}
		if len(id) == 0 || len(id) > maxVehicleIDLength {
			t.Errorf("accepted ID with invalid length %d", len(id))
		}
	})
}

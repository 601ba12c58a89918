package surface

// State is the surface's mode and modifier state. One value per Surface.
type State struct {
	Shift    bool
	Scrub    bool
	Flip     bool
	Clicking bool

	Page      Page
	MeterMode MeterMode // selected mode; the free page forces vertical
	JogSource JogSource

	// FirstTracks holds the first visible track per bank: index 0 for the
	// mixer pages, 1 for the free page. FirstTrackIdx selects the active one.
	FirstTrackIdx int
	FirstTracks   [2]int

	ExtenderSide Side
	SmoothSpeed  int

	// Touched marks faders currently held by a finger.
	Touched [NumColumns]bool
}

// FirstTrack returns the first visible track of the active bank.
func (st State) FirstTrack() int {
	return st.FirstTracks[st.FirstTrackIdx]
}

// FaderHold returns how many faders are being touched.
func (st State) FaderHold() int {
	n := 0
	for _, t := range st.Touched {
		if t {
			n++
		}
	}
	return n
}

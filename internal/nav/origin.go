package nav

// Payload is the transient context attached to one navigation. The set of
// payloads is closed; each variant carries exactly what its producer knows.
type Payload interface {
	// Scroll is the offset the destination should restore, if any.
	Scroll() (int, bool)
	payload()
}

// Origin payloads are attached to a detail navigation and name the list it
// came from.
type (
	FromHome struct {
		Offset int
	}
	FromSearch struct {
		Offset int
		Term   string
	}
	FromWatchlist struct {
		Offset int
	}
	FromTinder struct {
		Offset int
		Cursor int
	}
	// FromMoodResults keeps how the results view itself was entered so its
	// own back action still works after the round trip.
	FromMoodResults struct {
		Offset int
		Mood   string
		Entry  Payload
	}
)

// Entry payloads are attached to the mood results navigation.
type (
	FromHomeToMood struct {
		Offset int
	}
	FromMoodPage struct {
		Offset int
	}
)

// Restore payloads are what a back action hands to the list it returns to.
type (
	Restore struct {
		Offset int
	}
	RestoreDeck struct {
		Offset int
		Cursor int
	}
	RestoreMood struct {
		Offset int
		Entry  Payload
	}
)

// Origins report the offset of the view they left, not one to restore.
func (FromHome) Scroll() (int, bool)        { return 0, false }
func (FromSearch) Scroll() (int, bool)      { return 0, false }
func (FromWatchlist) Scroll() (int, bool)   { return 0, false }
func (FromTinder) Scroll() (int, bool)      { return 0, false }
func (FromMoodResults) Scroll() (int, bool) { return 0, false }
func (FromHomeToMood) Scroll() (int, bool)  { return 0, false }
func (FromMoodPage) Scroll() (int, bool)    { return 0, false }

func (p Restore) Scroll() (int, bool)     { return p.Offset, true }
func (p RestoreDeck) Scroll() (int, bool) { return p.Offset, true }
func (p RestoreMood) Scroll() (int, bool) { return p.Offset, true }

func (FromHome) payload()        {}
func (FromSearch) payload()      {}
func (FromWatchlist) payload()   {}
func (FromTinder) payload()      {}
func (FromMoodResults) payload() {}
func (FromHomeToMood) payload()  {}
func (FromMoodPage) payload()    {}
func (Restore) payload()         {}
func (RestoreDeck) payload()     {}
func (RestoreMood) payload()     {}

// EntryOf returns the payload describing how a mood results view was
// entered, looking through a RestoreMood.
func EntryOf(p Payload) Payload {
	switch v := p.(type) {
	case FromHomeToMood, FromMoodPage:
		return v
	case RestoreMood:
		return v.Entry
	}
	return nil
}

package captions

import "sort"

// Page is a run of consecutive words shown together as one caption line.
type Page struct {
	First, Last int // inclusive word indices
	Start, End  float64
}

// Len returns the number of words on the page.
func (p Page) Len() int {
	return p.Last - p.First + 1
}

func paginate(words []WordTiming, size int) []Page {
	var pages []Page
	for first := 0; first < len(words); first += size {
		last := first + size - 1
		if last >= len(words) {
			last = len(words) - 1
		}
		pages = append(pages, Page{
			First: first,
			Last:  last,
			Start: words[first].Start,
			End:   words[last].End,
		})
	}
	return pages
}

// Pages returns the caption pages.
func (s *Synchronizer) Pages() []Page {
	return append([]Page(nil), s.pages...)
}

// PageAt returns the page on screen at t. While a word is spoken its page is
// shown. Otherwise it is the page of the latest word whose pre-roll has begun,
// or the first page before any word. ok is false when there are no words.
func (s *Synchronizer) PageAt(t float64) (Page, bool) {
	if len(s.pages) == 0 {
		return Page{}, false
	}
	if active := s.ActiveWordIndex(t); active >= 0 {
		return s.pages[active/s.opts.PageSize], true
	}
	lead := t + s.opts.PreRoll
	i := sort.Search(len(s.words), func(k int) bool { return s.words[k].Start > lead })
	if i == 0 {
		return s.pages[0], true
	}
	return s.pages[(i-1)/s.opts.PageSize], true
}

// PageStates returns the states of the words on the page visible at t.
func (s *Synchronizer) PageStates(t float64) []WordState {
	p, ok := s.PageAt(t)
	if !ok {
		return nil
	}
	out := make([]WordState, 0, p.Len())
	for i := p.First; i <= p.Last; i++ {
		out = append(out, s.State(i, t))
	}
	return out
}

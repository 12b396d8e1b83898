package render

// paragraph is the implicit paragraph state machine.
//
// States are NoParagraph (open == false) and InParagraph (open == true);
// canOpen tells whether content may start a new paragraph. The renderer only
// changes it through the methods below.
type paragraph struct {
	open    bool
	canOpen bool
}

func newParagraph() paragraph {
	return paragraph{canOpen: true}
}

// atBlockLevel reports whether the next content would start a paragraph.
func (p paragraph) atBlockLevel() bool {
	return !p.open && p.canOpen
}

// begin moves NoParagraph -> InParagraph. Callers check atBlockLevel first.
func (p *paragraph) begin() {
	p.open = true
	p.canOpen = false
}

// end moves InParagraph -> NoParagraph and re-allows opening.
// It reports whether a paragraph was open and must be closed in the output.
func (p *paragraph) end() bool {
	if !p.open {
		return false
	}
	p.open = false
	p.canOpen = true
	return true
}

// suspend enters an inline run: inner content neither sees the enclosing
// paragraph nor opens a new one. The returned value restores the enclosing
// state through resume.
func (p *paragraph) suspend() paragraph {
	saved := *p
	p.open = false
	p.canOpen = false
	return saved
}

func (p *paragraph) resume(saved paragraph) {
	*p = saved
}

// hold forbids opening while a heading is written; release allows it again.
func (p *paragraph) hold() {
	p.canOpen = false
}

func (p *paragraph) release() {
	p.canOpen = true
}

package ui

// LabelField is the inline text editor used for renaming
type LabelField interface {
	GetText() string
	SetText(text string)
	Clear()
	Focus()
}

// TextField is an in-memory LabelField
type TextField struct {
	text    string
	focused bool
}

// NewTextField creates an empty, unfocused field
func NewTextField() *TextField {
	return &TextField{}
}

func (f *TextField) GetText() string     { return f.text }
func (f *TextField) SetText(text string) { f.text = text }
func (f *TextField) Clear()              { f.text = "" }
func (f *TextField) Focus()              { f.focused = true }

// Focused reports whether the field has input focus
func (f *TextField) Focused() bool { return f.focused }

// Blur drops input focus, keeping the text
func (f *TextField) Blur() { f.focused = false }

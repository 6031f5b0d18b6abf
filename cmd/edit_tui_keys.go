package cmd

import "github.com/charmbracelet/bubbles/key"

type editKeyMap struct {
	Play      key.Binding
	Back      key.Binding
	Forward   key.Binding
	GoStart   key.Binding
	GoEnd     key.Binding
	SetStart  key.Binding
	SetEnd    key.Binding
	Loop      key.Binding
	ClearLoop key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Submit    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newEditKeyMap() editKeyMap {
	return editKeyMap{
		Play:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "oynat/duraklat")),
		Back:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "kare geri")),
		Forward:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "kare ileri")),
		GoStart:   key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "başa git")),
		GoEnd:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "sona git")),
		SetStart:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "başlangıç burası")),
		SetEnd:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "bitiş burası")),
		Loop:      key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "döngü ekle")),
		ClearLoop: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "döngüyü kaldır")),
		Undo:      key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("ctrl+z", "geri al")),
		Redo:      key.NewBinding(key.WithKeys("ctrl+y", "ctrl+r"), key.WithHelp("ctrl+y", "yinele")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "uygula")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "yardım")),
		Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "çık")),
	}
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.SetStart, k.SetEnd, k.Loop, k.Undo, k.Submit, k.Help, k.Quit}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Play, k.Back, k.Forward, k.GoStart, k.GoEnd},
		{k.SetStart, k.SetEnd, k.Loop, k.ClearLoop},
		{k.Undo, k.Redo, k.Submit, k.Help, k.Quit},
	}
}

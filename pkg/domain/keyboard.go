package domain

type Button struct {
	Label    string
	Callback string
}

type Keyboard struct {
	Rows [][]Button
}

func (k *Keyboard) Row(buttons ...Button) *Keyboard {
	k.Rows = append(k.Rows, buttons)
	return k
}

package eventbus

import "fyne.io/fyne/v2/data/binding"

// BindProgress wires the PropertyProgress event into a Fyne reactive
// Int binding (a 0-100 percentage), so a real UI shell can bind a progress
// bar widget directly to solve progress instead of polling.
func BindProgress(b *Bus) binding.Int {
	i := binding.NewInt()
	b.On(PropertyProgress, func(_, new any) {
		pct, ok := new.(int)
		if !ok {
			return
		}
		_ = i.Set(pct)
	})
	return i
}

// BindPendingPaths wires the PropertyPendingPaths event into a Fyne
// Untyped binding, giving a UI shell a reactive handle on the scissors
// model's in-progress live-wire paths without needing to poll Drain itself.
func BindPendingPaths(b *Bus) binding.Untyped {
	u := binding.NewUntyped()
	b.On(PropertyPendingPaths, func(_, new any) {
		_ = u.Set(new)
	})
	return u
}

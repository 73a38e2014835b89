package service

import "sync"

// Forms keeps one live NewBillForm per session email.
type Forms struct {
	deps Deps

	mu    sync.Mutex
	forms map[string]*NewBillForm
}

func NewForms(deps Deps) *Forms {
	return &Forms{
		deps:  deps,
		forms: make(map[string]*NewBillForm),
	}
}

// Open replaces the session's form with a fresh one, as entering the NewBill page does.
func (f *Forms) Open(email string) *NewBillForm {
	f.mu.Lock()
	defer f.mu.Unlock()

	form := NewNewBillForm(f.deps)
	f.forms[email] = form

	return form
}

func (f *Forms) Current(email string) *NewBillForm {
	f.mu.Lock()
	defer f.mu.Unlock()

	form, ok := f.forms[email]
	if !ok {
		form = NewNewBillForm(f.deps)
		f.forms[email] = form
	}

	return form
}

func (f *Forms) Close(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.forms, email)
}

package app

import (
	"errors"
	"os"

	"github.com/dshills/proofmark/internal/config"
	"github.com/dshills/proofmark/internal/editor"
	"github.com/dshills/proofmark/internal/renderer/backend"
	"github.com/dshills/proofmark/internal/renderer/statusline"
)

// wheelStep is the number of rows one wheel notch scrolls.
const wheelStep = 3

// handleEvent processes a backend event on the loop.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	var err error
	switch ev.Type {
	case backend.EventResize:
		app.view.Resize(ev.Width, ev.Height)
	case backend.EventKey:
		err = app.handleKey(ev)
	case backend.EventMouse:
		err = app.handleMouse(ev)
	case backend.EventPaste:
		if !app.prompt {
			err = app.surface.Paste(ev.PasteText)
		} else {
			app.view.Status().PromptInsert(ev.PasteText)
		}
	case backend.EventInterrupt:
		if ev.Func != nil {
			ev.Func()
		}
	}
	if err != nil && !errors.Is(err, ErrQuit) {
		app.log.WithComponent("input").Debug("%v", err)
		return nil
	}
	return err
}

func (app *Application) handleKey(ev backend.Event) error {
	if app.prompt {
		app.handlePromptKey(ev)
		return nil
	}

	s := app.surface
	extend := ev.Mod.Has(backend.ModShift)
	ctrl := ev.Mod.Has(backend.ModCtrl)

	switch ev.Key {
	case backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyCtrlK:
		app.prompt = true
		app.view.Status().StartPrompt("API key (empty clears): ", true)
	case backend.KeyCtrlG:
		app.cycleGuide()
	case backend.KeyCtrlL:
		app.checkNow()
	case backend.KeyCtrlS:
		app.saveFile()
	case backend.KeyCtrlA:
		return s.SelectAll()
	case backend.KeyCtrlE:
		return s.MoveCaret(editor.LineEnd, extend)
	case backend.KeyEscape:
		app.view.Status().Dismiss()
		_, focus := s.Selection()
		return s.SetCaret(focus)

	case backend.KeyLeft:
		return s.MoveCaret(editor.Left, extend)
	case backend.KeyRight:
		return s.MoveCaret(editor.Right, extend)
	case backend.KeyUp:
		return app.moveVisual(-1, extend)
	case backend.KeyDown:
		return app.moveVisual(1, extend)
	case backend.KeyPageUp:
		return app.moveVisual(-app.view.PageSize(), extend)
	case backend.KeyPageDown:
		return app.moveVisual(app.view.PageSize(), extend)
	case backend.KeyHome:
		if ctrl {
			return s.MoveCaret(editor.DocStart, extend)
		}
		return s.MoveCaret(editor.LineStart, extend)
	case backend.KeyEnd:
		if ctrl {
			return s.MoveCaret(editor.DocEnd, extend)
		}
		return s.MoveCaret(editor.LineEnd, extend)

	case backend.KeyEnter:
		return s.Newline()
	case backend.KeyTab:
		return s.InsertText("\t")
	case backend.KeyBackspace:
		return s.DeleteBackward()
	case backend.KeyDelete:
		return s.DeleteForward()
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModAlt) || ev.Mod.Has(backend.ModMeta) {
			return nil
		}
		return s.InsertText(string(ev.Rune))
	}
	return nil
}

func (app *Application) handlePromptKey(ev backend.Event) {
	st := app.view.Status()
	switch ev.Key {
	case backend.KeyEnter:
		app.prompt = false
		app.setAPIKey(st.EndPrompt())
	case backend.KeyEscape, backend.KeyCtrlQ:
		app.prompt = false
		st.EndPrompt()
	case backend.KeyBackspace:
		st.PromptBackspace()
	case backend.KeyRune:
		st.PromptInsert(string(ev.Rune))
	}
}

// moveVisual moves the caret by visual rows so wrapped lines are walked
// row by row.
func (app *Application) moveVisual(rows int, extend bool) error {
	anchor, focus := app.surface.Selection()
	target := app.view.VisualMove(focus, rows)
	if extend {
		return app.surface.Select(anchor, target)
	}
	return app.surface.SetCaret(target)
}

func (app *Application) handleMouse(ev backend.Event) error {
	s := app.surface
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.view.Scroll(-wheelStep)
		return nil
	case backend.MouseWheelDown:
		app.view.Scroll(wheelStep)
		return nil

	case backend.MouseLeft:
		if id, ok := app.view.HitCard(ev.MouseX, ev.MouseY); ok {
			for _, sg := range s.Suggestions() {
				if sg.ID == id {
					return s.SetCaret(sg.Start)
				}
			}
			return nil
		}
		off, ok := app.view.HitText(ev.MouseX, ev.MouseY)
		if !ok {
			return nil
		}
		if app.dragging {
			return s.Select(app.dragFrom, off)
		}
		app.dragging, app.dragFrom = true, off
		if ev.Mod.Has(backend.ModShift) {
			anchor, _ := s.Selection()
			app.dragFrom = anchor
			return s.Select(anchor, off)
		}
		return s.SetCaret(off)

	case backend.MouseNone:
		app.dragging = false
		if off, ok := app.view.HitText(ev.MouseX, ev.MouseY); ok {
			return s.Hover(off)
		}
		return s.HoverEnd()
	}
	return nil
}

// cycleGuide selects the next style guide and checks the text against it.
func (app *Application) cycleGuide() {
	if len(app.guides) == 0 {
		return
	}
	app.guideIdx = (app.guideIdx + 1) % len(app.guides)
	if app.store != nil {
		if err := app.store.SetStyleGuideIndex(app.guideIdx); err != nil {
			app.log.WithComponent("store").Warn("save guide index: %v", err)
		}
	}
	g, _, _ := config.SelectGuide(app.guides, app.guideIdx)
	app.log.Info("style guide %q selected", g.Name)
	app.refreshStatus()
	app.view.Status().SetMessage("style guide: "+g.Name, statusline.MessageInfo)
	app.gen.Touch()
}

// saveFile writes the text back to the file it was opened from.
func (app *Application) saveFile() {
	st := app.view.Status()
	if app.file == "" {
		st.SetMessage(ErrNoFile.Error(), statusline.MessageWarning)
		return
	}
	text := app.surface.Text()
	if text == editor.Placeholder {
		text = ""
	}
	if err := os.WriteFile(app.file, []byte(text), 0o644); err != nil {
		err = NewOperationError("save", app.file, err)
		app.log.Error("%v", err)
		st.SetNotice(err.Error())
		return
	}
	st.SetMessage("saved "+app.file, statusline.MessageInfo)
}

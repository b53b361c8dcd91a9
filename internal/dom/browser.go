//go:build js && wasm

package dom

import (
	"fmt"
	"syscall/js"

	"go.uber.org/zap"
)

// Browser is the live page document. Listener panics are recovered and logged so a
// faulty handler cannot stop the Go runtime and with it every other handler.
type Browser struct {
	doc    js.Value
	window js.Value
	log    *zap.Logger
}

// NewBrowser wraps the global document.
func NewBrowser(log *zap.Logger) *Browser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Browser{
		doc:    js.Global().Get("document"),
		window: js.Global(),
		log:    log,
	}
}

func (b *Browser) Query(selector string) Element {
	return b.wrap(b.doc.Call("querySelector", selector))
}

func (b *Browser) QueryAll(selector string) []Element {
	return b.wrapList(b.doc.Call("querySelectorAll", selector))
}

func (b *Browser) ByID(id string) Element {
	return b.wrap(b.doc.Call("getElementById", id))
}

func (b *Browser) Body() Element {
	return b.wrap(b.doc.Get("body"))
}

func (b *Browser) On(event string, fn Listener) {
	b.listen(b.window, event, fn)
}

func (b *Browser) listen(target js.Value, event string, fn Listener) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		b.deliver(event, args[0], fn)
		return nil
	})
	target.Call("addEventListener", event, cb)
}

func (b *Browser) deliver(event string, raw js.Value, fn Listener) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked", zap.String("event", event), zap.String("panic", fmt.Sprint(r)))
		}
	}()

	ev := &Event{Type: event, Target: b.wrap(raw.Get("target"))}
	if key := raw.Get("key"); key.Type() == js.TypeString {
		ev.Key = key.String()
	}
	fn(ev)
	if ev.DefaultPrevented() {
		raw.Call("preventDefault")
	}
}

func (b *Browser) wrap(v js.Value) Element {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &browserElement{b: b, v: v}
}

func (b *Browser) wrapList(list js.Value) []Element {
	n := list.Get("length").Int()
	out := make([]Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &browserElement{b: b, v: list.Index(i)})
	}
	return out
}

type browserElement struct {
	b *Browser
	v js.Value
}

func (e *browserElement) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (e *browserElement) SetAttr(name, value string) { e.v.Call("setAttribute", name, value) }

func (e *browserElement) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

func (e *browserElement) AddClass(name string)    { e.v.Get("classList").Call("add", name) }
func (e *browserElement) RemoveClass(name string) { e.v.Get("classList").Call("remove", name) }

func (e *browserElement) ToggleClass(name string) bool {
	return e.v.Get("classList").Call("toggle", name).Bool()
}

func (e *browserElement) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

func (e *browserElement) SetStyle(property, value string) {
	if value == "" {
		e.v.Get("style").Call("removeProperty", property)
		return
	}
	e.v.Get("style").Call("setProperty", property, value)
}

func (e *browserElement) InnerHTML() string          { return e.v.Get("innerHTML").String() }
func (e *browserElement) SetInnerHTML(markup string) { e.v.Set("innerHTML", markup) }

func (e *browserElement) Query(selector string) Element {
	return e.b.wrap(e.v.Call("querySelector", selector))
}

func (e *browserElement) QueryAll(selector string) []Element {
	return e.b.wrapList(e.v.Call("querySelectorAll", selector))
}

func (e *browserElement) On(event string, fn Listener) { e.b.listen(e.v, event, fn) }

func (e *browserElement) Same(other Element) bool {
	o, ok := other.(*browserElement)
	return ok && o != nil && o.v.Equal(e.v)
}

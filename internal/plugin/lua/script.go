package lua

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/hilite/internal/engine/span"
	"github.com/dshills/hilite/internal/style"
)

// askValue is the magic attribute string that defers a value to an
// interactive prompt at application time.
const askValue = "ask"

// RunInit loads and executes the init script at path. Kinds the script
// registers are added to reg; colors may be drawn from pal by name.
func RunInit(path string, reg *style.Registry, pal style.Palette) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("init script: %w", err)
	}
	return RunSource(filepath.Base(path), string(src), reg, pal)
}

// RunSource executes an init script from an in-memory string. The name
// is used in error messages only.
func RunSource(name, src string, reg *style.Registry, pal style.Palette) error {
	L := glua.NewState()
	defer L.Close()

	sandbox(L)
	installAPI(L, reg, pal)

	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("init script %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, glua.MultRet, nil); err != nil {
		return fmt.Errorf("init script %s: %w", name, err)
	}
	return nil
}

// sandbox strips the globals an init script has no business calling.
// Scripts configure decoration kinds; they do not read files, spawn
// processes, or load further code.
func sandbox(L *glua.LState) {
	for _, name := range []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"os",
		"io",
		"package",
	} {
		L.SetGlobal(name, glua.LNil)
	}
}

// installAPI publishes the `hilite` table.
func installAPI(L *glua.LState, reg *style.Registry, pal style.Palette) {
	t := L.NewTable()
	L.SetFuncs(t, map[string]glua.LGFunction{
		"register_kind": registerKindFn(reg, pal),
		"palette":       paletteFn(pal),
	})
	L.SetGlobal("hilite", t)
}

func registerKindFn(reg *style.Registry, pal style.Palette) glua.LGFunction {
	return func(L *glua.LState) int {
		t := L.CheckTable(1)
		k, err := kindFromTable(t, pal)
		if err != nil {
			L.RaiseError("register_kind: %v", err)
			return 0
		}
		if err := reg.Register(k); err != nil {
			L.RaiseError("register_kind: %v", err)
			return 0
		}
		return 0
	}
}

func paletteFn(pal style.Palette) glua.LGFunction {
	return func(L *glua.LState) int {
		name := L.CheckString(1)
		L.Push(glua.LString(pal.Color(name)))
		return 1
	}
}

// kindFromTable converts a register_kind argument table into a Kind.
func kindFromTable(t *glua.LTable, pal style.Palette) (style.Kind, error) {
	var k style.Kind

	name, ok := tableString(t, "name")
	if !ok || name == "" {
		return k, fmt.Errorf("missing name")
	}
	k.Name = name
	k.Base = make(map[span.Attr]style.Value)

	if v, ok := tableString(t, "background"); ok {
		k.Base[span.AttrBackground] = colorValue(v, name+" background", pal)
	}
	if v, ok := tableString(t, "foreground"); ok {
		k.Base[span.AttrForeground] = colorValue(v, name+" foreground", pal)
	}
	if v, ok := tableString(t, "weight"); ok {
		k.Base[span.AttrWeight] = style.Lit(v)
	}
	if v, ok := tableString(t, "slant"); ok {
		k.Base[span.AttrSlant] = style.Lit(v)
	}
	if tableBool(t, "underline") {
		k.Base[span.AttrUnderline] = style.Lit("on")
	}
	if tableBool(t, "strikethrough") {
		k.Base[span.AttrStrikethrough] = style.Lit("on")
	}
	if v, ok := tableString(t, "box"); ok {
		if v != "box" && v != "emboss" {
			return k, fmt.Errorf("kind %q: box must be %q or %q", name, "box", "emboss")
		}
		k.Base[span.AttrBox] = style.Lit(v)
	}
	if v, ok := tableString(t, "font"); ok {
		if v == askValue {
			k.Base[span.AttrFontFamily] = style.AskFont(name + " font")
		} else {
			k.Base[span.AttrFontFamily] = style.Lit(v)
		}
	}
	if n, ok := tableInt(t, "size"); ok {
		if n < 1 {
			return k, fmt.Errorf("kind %q: size must be positive", name)
		}
		k.Base[span.AttrFontSize] = style.Lit(strconv.Itoa(n))
	}

	// note = true prompts at application time; note = "text" is a
	// fixed initial note.
	switch v := t.RawGetString("note").(type) {
	case glua.LBool:
		if bool(v) {
			label := name
			k.Note = style.Ask(func(p style.Prompter) (string, error) {
				return p.ReadNote(label, "")
			})
		}
	case glua.LString:
		k.Note = style.Lit(string(v))
	}

	k.Interactive = tableBool(t, "interactive")

	if len(k.Base) == 0 && k.Note.IsZero() {
		return k, fmt.Errorf("kind %q defines no attributes", name)
	}
	return k, nil
}

// colorValue maps a color field: "ask" defers to a prompt, a palette
// name resolves through pal, anything else passes through as-is.
func colorValue(v, label string, pal style.Palette) style.Value {
	if v == askValue {
		return style.AskColor(label)
	}
	return style.Lit(pal.Color(v))
}

func tableString(t *glua.LTable, key string) (string, bool) {
	if s, ok := t.RawGetString(key).(glua.LString); ok {
		return string(s), true
	}
	return "", false
}

func tableInt(t *glua.LTable, key string) (int, bool) {
	if n, ok := t.RawGetString(key).(glua.LNumber); ok {
		return int(n), true
	}
	return 0, false
}

func tableBool(t *glua.LTable, key string) bool {
	if b, ok := t.RawGetString(key).(glua.LBool); ok {
		return bool(b)
	}
	return false
}

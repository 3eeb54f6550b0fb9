package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pawgrammers/internal/petstore"
)

type formField int

const (
	fieldName formField = iota
	fieldBreed
	fieldAge
	fieldURL
	numFormFields
)

var fieldLabels = [numFormFields]string{"Name", "Breed", "Age", "Picture URL"}

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

// formModel es el modal de alta/edición.
type formModel struct {
	mode   formMode
	petID  string // sólo en edición
	inputs [numFormFields]textinput.Model
	focus  formField
	err    string

	submitted bool
	canceled  bool
	fields    petstore.Fields
}

func newForm(mode formMode) formModel {
	m := formModel{mode: mode}
	placeholders := [numFormFields]string{"Firulais", "Labrador", "3", "https://..."}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		ti.Width = 36
		m.inputs[i] = ti
	}
	m.inputs[fieldAge].CharLimit = 3
	m.inputs[fieldName].Focus()
	return m
}

// newEditForm precarga el modal con los datos de p.
func newEditForm(p petstore.Pet) formModel {
	m := newForm(formEdit)
	m.petID = p.ID
	m.inputs[fieldName].SetValue(p.Name)
	m.inputs[fieldBreed].SetValue(p.Breed)
	if p.Age != nil {
		m.inputs[fieldAge].SetValue(strconv.Itoa(*p.Age))
	}
	m.inputs[fieldURL].SetValue(p.PictureURL)
	return m
}

func (m formModel) title() string {
	if m.mode == formEdit {
		return "Edit Pet"
	}
	return "Add Pet"
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "esc":
		m.canceled = true
		return m, nil
	case "ctrl+s":
		return m.submit(), nil
	case "enter":
		if m.focus == numFormFields-1 {
			return m.submit(), nil
		}
		return m.setFocus(m.focus + 1), nil
	case "tab", "down":
		return m.setFocus((m.focus + 1) % numFormFields), nil
	case "shift+tab", "up":
		return m.setFocus((m.focus - 1 + numFormFields) % numFormFields), nil
	}

	m.err = ""
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m formModel) setFocus(f formField) formModel {
	m.inputs[m.focus].Blur()
	m.focus = f
	m.inputs[m.focus].Focus()
	return m
}

func (m formModel) submit() formModel {
	f, errMsg := m.parse()
	if errMsg != "" {
		m.err = errMsg
		return m
	}
	m.fields = f
	m.submitted = true
	return m
}

// parse valida lo mínimo para no mandar basura; el server valida el resto.
func (m formModel) parse() (petstore.Fields, string) {
	f := petstore.Fields{
		Name:       strings.TrimSpace(m.inputs[fieldName].Value()),
		Breed:      strings.TrimSpace(m.inputs[fieldBreed].Value()),
		PictureURL: strings.TrimSpace(m.inputs[fieldURL].Value()),
	}
	if f.Name == "" {
		return f, "name is required"
	}
	if f.Breed == "" {
		return f, "breed is required"
	}
	if raw := strings.TrimSpace(m.inputs[fieldAge].Value()); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return f, "age must be a non-negative number"
		}
		f.Age = &age
	}
	return f, ""
}

func (m formModel) View(st styles) string {
	var b strings.Builder
	b.WriteString(st.title.Render(m.title()))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := st.label
		if formField(i) == m.focus {
			label = st.labelFocus
		}
		b.WriteString(label.Render(fieldLabels[i]))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(st.errText.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(st.dim.Render("tab next · ctrl+s save · esc cancel"))

	return st.modal.Render(b.String())
}

func centered(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}

package beanio

import (
	"regexp"
)

// ContentNode is a node in a Record's content tree (distinct from the
// Selector tree): Segment, Field, or Property all implement it.
type ContentNode interface {
	UnmarshalInto(ctx *UnmarshallingContext, view RecordView, bean interface{})
	MarshalFrom(ctx *MarshallingContext, view RecordView, bean interface{}) error
}

// Field is the smallest bound value in a record (§3, §4.3).
type Field struct {
	Name             string
	PropertyName     string
	Descriptor       FieldDescriptor
	Padding          rune
	Justify          Justify
	Literal          string
	Regex            *regexp.Regexp
	Default          string
	Required         bool
	Trim             bool
	Nillable         bool
	RecordIdentifier bool
	Truncate         bool
	Handler          TypeHandler
	Accessor         PropertyAccessor
}

// UnmarshalInto implements the seven-step unmarshal pipeline from §4.3.
// Field errors are accumulated on ctx rather than returned, so a record with
// several failing fields still yields a complete report (§4.2, §7).
func (f *Field) UnmarshalInto(ctx *UnmarshallingContext, view RecordView, bean interface{}) {
	f.unmarshalAt(ctx, view, bean, f.Descriptor)
}

// unmarshalAt runs the pipeline against an explicit descriptor rather than
// f.Descriptor, letting a repeating Segment bind each occurrence's fields
// without mutating the shared Field definition (§4.2, collection binding).
func (f *Field) unmarshalAt(ctx *UnmarshallingContext, view RecordView, bean interface{}, fd FieldDescriptor) {
	text, present := view.GetText(fd)
	if !present {
		text = ""
	}
	if f.Trim {
		text = trimASCII(text)
	}

	if text == "" {
		if f.Nillable || !f.Required {
			f.writeDefault(ctx, bean)
			return
		}
		ctx.addFieldError(f.Name, ErrFieldRequired.New())
		return
	}

	if f.Literal != "" && text != f.Literal {
		ctx.addFieldError(f.Name, ErrFieldLiteral.New(f.Literal, text))
		return
	}
	if f.Regex != nil && !f.Regex.MatchString(text) {
		ctx.addFieldError(f.Name, ErrFieldRegex.New(text, f.Regex.String()))
		return
	}

	value, err := f.Handler.Parse(text)
	if err != nil {
		ctx.addFieldError(f.Name, ErrFieldTypeHandler.New(err.Error()))
		return
	}

	if err := f.Accessor.Set(bean, f.PropertyName, value); err != nil {
		ctx.addFieldError(f.Name, err)
	}
}

// shiftedDescriptor returns f.Descriptor adjusted for a repeating Segment's
// occurrence: charShift is added to Position (fixed-length), tokenShift to
// Index (delimited), and occurrence becomes Occurrence (XML repeating
// siblings track occurrences, not character/token shifts).
func (f *Field) shiftedDescriptor(charShift, tokenShift, occurrence int) FieldDescriptor {
	fd := f.Descriptor
	fd.Position += charShift
	if fd.HasIndex {
		fd.Index += tokenShift
	}
	fd.Occurrence = occurrence
	return fd
}

func (f *Field) writeDefault(ctx *UnmarshallingContext, bean interface{}) {
	if f.Default == "" {
		_ = f.Accessor.Set(bean, f.PropertyName, nil)
		return
	}
	value, err := f.Handler.Parse(f.Default)
	if err != nil {
		ctx.addFieldError(f.Name, ErrFieldTypeHandler.New(err.Error()))
		return
	}
	_ = f.Accessor.Set(bean, f.PropertyName, value)
}

// MarshalFrom implements the marshal pipeline from §4.3: read through the
// accessor (nil -> default), format through the TypeHandler, then apply
// justify/padding, truncating or erroring on overflow per Truncate.
func (f *Field) MarshalFrom(ctx *MarshallingContext, view RecordView, bean interface{}) error {
	return f.marshalAt(ctx, view, bean, f.Descriptor)
}

// marshalAt is MarshalFrom against an explicit descriptor, the write-side
// counterpart to unmarshalAt.
func (f *Field) marshalAt(ctx *MarshallingContext, view RecordView, bean interface{}, fd FieldDescriptor) error {
	value, err := f.Accessor.Get(bean, f.PropertyName)
	if err != nil {
		return err
	}

	var text string
	if value == nil {
		text = f.Default
	} else {
		text, err = f.Handler.Format(value)
		if err != nil {
			return err
		}
	}

	if fd.Length > 0 {
		text, err = f.applyPadding(text, fd.Length)
		if err != nil {
			return err
		}
	}

	view.SetText(fd, text)
	return nil
}

// applyPadding implements the §4.3 padding rule: left-justified text pads on
// the right with Padding up to length; right-justified pads on the left.
// Text longer than length is a field-too-long error unless Truncate is set.
func (f *Field) applyPadding(text string, length int) (string, error) {
	runes := []rune(text)
	if len(runes) > length {
		if f.Truncate {
			return string(runes[:length]), nil
		}
		return "", ErrFieldTooLong.New(length)
	}
	if len(runes) == length {
		return text, nil
	}
	pad := f.Padding
	if pad == 0 {
		pad = ' '
	}
	padding := make([]rune, length-len(runes))
	for i := range padding {
		padding[i] = pad
	}
	if f.Justify == JustifyRight {
		return string(padding) + text, nil
	}
	return text + string(padding), nil
}

// Property is a constant-valued leaf (§3, Bean/BeanProperty): it produces
// its literal Value on read without touching the stream, and writes nothing
// on marshal.
type Property struct {
	Name         string
	PropertyName string
	Value        interface{}
	Accessor     PropertyAccessor
}

func (p *Property) UnmarshalInto(ctx *UnmarshallingContext, view RecordView, bean interface{}) {
	_ = p.Accessor.Set(bean, p.PropertyName, p.Value)
}

func (p *Property) MarshalFrom(ctx *MarshallingContext, view RecordView, bean interface{}) error {
	return nil
}

package beanio

import "fmt"

// PropertyAccessor is the abstract adapter onto user record objects (§9,
// "Reflective bean property access"). The core never depends on runtime
// introspection: it calls Get/Set through this trait and, for marshalling
// dispatch, Defines to ask whether a bean belongs to this accessor's
// variant. Host code registers new record variants by providing a
// PropertyAccessor; the core never needs to change to support them.
type PropertyAccessor interface {
	// Get reads the named property off bean.
	Get(bean interface{}, property string) (interface{}, error)
	// Set writes value into the named property on bean.
	Set(bean interface{}, property string, value interface{}) error
	// Defines reports whether bean belongs to the variant this accessor
	// adapts — the closed-enumeration replacement for the source's runtime
	// class-based dispatch on write (§9).
	Defines(bean interface{}) bool
	// New constructs a zero-value instance of the variant this accessor
	// adapts, used when unmarshalling creates a fresh bean for a record or
	// nested segment.
	New() interface{}
}

// MapAccessor adapts map[string]interface{} beans, the shape the teacher's
// own Record/Field types use. Defines matches any map[string]interface{}
// carrying the configured discriminator key/value, so multiple map-shaped
// record variants can coexist in one stream.
type MapAccessor struct {
	// A non-empty DiscriminatorKey restricts Defines to maps whose value
	// under that key equals DiscriminatorValue. An empty DiscriminatorKey
	// matches any map[string]interface{}.
	DiscriminatorKey   string
	DiscriminatorValue interface{}
}

func (a MapAccessor) Get(bean interface{}, property string) (interface{}, error) {
	m, ok := bean.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("MapAccessor: expected map[string]interface{}, got %T", bean)
	}
	return m[property], nil
}

func (a MapAccessor) Set(bean interface{}, property string, value interface{}) error {
	m, ok := bean.(map[string]interface{})
	if !ok {
		return fmt.Errorf("MapAccessor: expected map[string]interface{}, got %T", bean)
	}
	m[property] = value
	return nil
}

func (a MapAccessor) Defines(bean interface{}) bool {
	m, ok := bean.(map[string]interface{})
	if !ok {
		return false
	}
	if a.DiscriminatorKey == "" {
		return true
	}
	v, present := m[a.DiscriminatorKey]
	return present && v == a.DiscriminatorValue
}

func (a MapAccessor) New() interface{} {
	return make(map[string]interface{})
}

// FuncAccessor adapts an arbitrary user type through host-supplied getter,
// setter, and matcher closures — the "getter/setter names or indices"
// parametrization called for in §9, expressed in Go as closures rather than
// reflection so the core stays introspection-free.
type FuncAccessor struct {
	Getters map[string]func(bean interface{}) (interface{}, error)
	Setters map[string]func(bean interface{}, value interface{}) error
	Matches func(bean interface{}) bool
	Factory func() interface{}
}

func (a FuncAccessor) Get(bean interface{}, property string) (interface{}, error) {
	fn, ok := a.Getters[property]
	if !ok {
		return nil, fmt.Errorf("FuncAccessor: no getter registered for property %q", property)
	}
	return fn(bean)
}

func (a FuncAccessor) Set(bean interface{}, property string, value interface{}) error {
	fn, ok := a.Setters[property]
	if !ok {
		return fmt.Errorf("FuncAccessor: no setter registered for property %q", property)
	}
	return fn(bean, value)
}

func (a FuncAccessor) Defines(bean interface{}) bool {
	if a.Matches == nil {
		return false
	}
	return a.Matches(bean)
}

func (a FuncAccessor) New() interface{} {
	if a.Factory == nil {
		return nil
	}
	return a.Factory()
}

// ConstantAccessor always returns Value regardless of the bean passed in,
// implementing "constant properties produce their literal value on read
// without touching the stream" (§3, Bean/BeanProperty).
type ConstantAccessor struct {
	Value interface{}
}

func (a ConstantAccessor) Get(bean interface{}, property string) (interface{}, error) {
	return a.Value, nil
}

func (a ConstantAccessor) Set(bean interface{}, property string, value interface{}) error {
	return nil
}

func (a ConstantAccessor) Defines(bean interface{}) bool { return true }
func (a ConstantAccessor) New() interface{}              { return a.Value }

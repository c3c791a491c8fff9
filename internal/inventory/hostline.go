package inventory

import "strings"

// HostVar is a single key=value token on an inventory host line.
type HostVar struct {
	Key   string
	Value string
}

// HostLine is an inventory host entry with its variables in emission order.
type HostLine struct {
	Host string
	Vars []HostVar
}

func NewHostLine(host string) *HostLine {
	return &HostLine{Host: host}
}

// Set appends key=value.
func (l *HostLine) Set(key, value string) *HostLine {
	l.Vars = append(l.Vars, HostVar{Key: key, Value: value})
	return l
}

// SetIf appends key=value when cond holds.
func (l *HostLine) SetIf(cond bool, key, value string) *HostLine {
	if cond {
		l.Set(key, value)
	}
	return l
}

// Get returns the value of the first var named key.
func (l *HostLine) Get(key string) (string, bool) {
	for _, v := range l.Vars {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// String renders the INI form: host followed by space separated key=value
// tokens.
func (l *HostLine) String() string {
	var b strings.Builder
	b.WriteString(l.Host)
	for _, v := range l.Vars {
		b.WriteByte(' ')
		b.WriteString(v.Key)
		b.WriteByte('=')
		b.WriteString(v.Value)
	}
	return b.String()
}

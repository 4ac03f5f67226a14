package sanitizer

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// Contact is the raw contact form a visitor submits.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// SanitizeContact normalizes every field of c. Phone numbers are parsed relative to defaultRegion.
func SanitizeContact(c Contact, defaultRegion string) Contact {
	return Contact{
		Name:  NormalizeName(c.Name),
		Email: NormalizeEmail(c.Email),
		Phone: NormalizePhone(c.Phone, defaultRegion),
	}
}

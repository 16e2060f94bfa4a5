package expression

import (
	"strings"

	"github.com/go-faker/faker/v4"
)

// fakers maps the names accepted by fake() to generators. The faker
// functions take variadic options, hence the wrappers.
var fakers = map[string]func() string{
	"name":      func() string { return faker.Name() },
	"firstName": func() string { return faker.FirstName() },
	"lastName":  func() string { return faker.LastName() },
	"email":     func() string { return faker.Email() },
	"phone":     func() string { return faker.Phonenumber() },
	"uuid":      func() string { return faker.UUIDHyphenated() },
	"word":      func() string { return faker.Word() },
	"sentence":  func() string { return faker.Sentence() },
	"paragraph": func() string { return faker.Paragraph() },
	"url":       func() string { return faker.URL() },
	"username":  func() string { return faker.Username() },
	"ipv4":      func() string { return faker.IPv4() },
	"date":      func() string { return faker.Date() },
}

// Fake returns a fake value of the given kind, or an empty string for an
// unknown kind. Kinds are matched case-insensitively.
func Fake(kind string) string {
	if gen, ok := fakers[kind]; ok {
		return gen()
	}
	for name, gen := range fakers {
		if strings.EqualFold(name, kind) {
			return gen()
		}
	}
	return ""
}

// Helpers returns the functions every expression environment exposes.
func Helpers() map[string]any {
	return map[string]any{
		"fake": Fake,
	}
}

// Env merges the helper functions with vars. Keys in vars win.
func Env(vars map[string]any) map[string]any {
	env := Helpers()
	for k, v := range vars {
		env[k] = v
	}
	return env
}

package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// settings collects the global flags shared by every command.
type settings struct {
	Files         []string `validate:"dive,required"`
	Assignments   []string `validate:"dive,contains=="`
	LogLevel      string   `validate:"oneof=debug info warn error"`
	SecretKey     string   `validate:"omitempty,alphanum,min=16"`
	NoEnv         bool
	IgnoreUnknown bool
	CollectAll    bool
	ActivityLog   bool
}

var settingsValidator = validator.New()

func (s settings) validate() error {
	err := settingsValidator.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed %s", flagName(verr.StructField()), verr.Tag()))
	}
	return fmt.Errorf("invalid flags: %s", strings.Join(messages, "; "))
}

func flagName(field string) string {
	switch {
	case strings.HasPrefix(field, "Files"):
		return "--file"
	case strings.HasPrefix(field, "Assignments"):
		return "--set"
	case field == "LogLevel":
		return "--log-level"
	case field == "SecretKey":
		return "--secret-key"
	default:
		return field
	}
}

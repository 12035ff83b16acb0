package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"k8s.io/apimachinery/pkg/util/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Namespaces and service names end up as DNS labels in certificate SANs.
	_ = v.RegisterValidation("dns_label", func(fl validator.FieldLevel) bool {
		return len(validation.IsDNS1123Label(fl.Field().String())) == 0
	})
	return v
}

// ConfigurationError reports a configuration that cannot be provisioned.
// Err aggregates every violation found.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// Validate checks the configuration and returns a *ConfigurationError listing
// every violation, or nil.
func (c *Config) Validate() error {
	var result *multierror.Error

	if err := validate.Struct(c); err != nil {
		result = multierror.Append(result, fieldErrors(err)...)
	}

	if len(c.Create) == 0 {
		result = multierror.Append(result, errors.New("at least one cluster must be listed under create"))
	}

	seen := make(map[string]bool)
	for i, cs := range c.Create {
		field := fmt.Sprintf("create[%d]", i)
		switch {
		case cs.Namespace == "":
			result = multierror.Append(result, fmt.Errorf("%s: namespace is required for a cluster being created", field))
		case len(validation.IsDNS1123Label(cs.Namespace)) > 0:
			result = multierror.Append(result, fmt.Errorf("%s: namespace %q is not a valid DNS-1123 label", field, cs.Namespace))
		case seen[cs.Namespace]:
			result = multierror.Append(result, fmt.Errorf("%s: namespace %q is listed more than once", field, cs.Namespace))
		}
		seen[cs.Namespace] = true

		if cs.CACertsFile != "" {
			result = multierror.Append(result, fmt.Errorf("%s: ca_certs_file is only valid for join clusters, a created cluster generates its own CA", field))
		}
	}

	for i, cs := range c.Join {
		if cs.CACertsFile == "" {
			result = multierror.Append(result, fmt.Errorf("join[%d]: cluster is not being created and has no ca_certs_file", i))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

// CheckFiles verifies that every externally supplied CA bundle exists.
func (c *Config) CheckFiles() error {
	var result *multierror.Error
	for i, cs := range c.Join {
		if cs.CACertsFile == "" {
			continue
		}
		info, err := os.Stat(cs.CACertsFile)
		switch {
		case err != nil:
			result = multierror.Append(result, fmt.Errorf("join[%d]: ca_certs_file: %w", i, err))
		case info.IsDir():
			result = multierror.Append(result, fmt.Errorf("join[%d]: ca_certs_file %s is a directory", i, cs.CACertsFile))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return &ConfigurationError{Err: err}
	}
	return nil
}

// fieldErrors turns validator output into one error per failing field.
func fieldErrors(err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q check (value %q)",
			fieldPath(fe.Namespace()), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return errs
}

// fieldPath drops the root struct name: "Config.Create[0].NodeAddrs[1]" becomes
// "Create[0].NodeAddrs[1]".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

package lint

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/temirov/lintfmt/internal/discovery"
	"github.com/temirov/lintfmt/internal/formatters"
	pathutils "github.com/temirov/lintfmt/internal/utils/path"
)

const (
	defaultRemediationHintConstant          = "lintfmt -i"
	defaultGitBinaryConstant                = "git"
	defaultNativeBinaryConstant             = "clang-format"
	defaultScriptBinaryConstant             = "black"
	baselineConfigurationKeyConstant        = "baseline"
	repositoryRootConfigurationKeyConstant  = "repository_root"
	excludeConfigurationKeyConstant         = "exclude"
	excludeFileConfigurationKeyConstant     = "exclude_file"
	remediationHintConfigurationKeyConstant = "remediation_hint"
	timeoutConfigurationKeyConstant         = "timeout"
	gitBinaryConfigurationKeyConstant       = "git.binary"
	nativeBinaryConfigurationKeyConstant    = "native.binary"
	nativeStyleConfigurationKeyConstant     = "native.style"
	nativeExtensionsConfigurationKeyConst   = "native.extensions"
	scriptBinaryConfigurationKeyConstant    = "script.binary"
	scriptTargetConfigurationKeyConstant    = "script.target_version"
	scriptExitCodeConfigurationKeyConstant  = "script.needs_formatting_exit_code"
	scriptExtensionsConfigurationKeyConst   = "script.extensions"
	configurationKeySeparatorConstant       = "."
	mapstructureTagNameConstant             = "mapstructure"
	tagOptionSeparatorConstant              = ","
	ignoredFieldTagConstant                 = "-"
	fileExtensionValidationTagConstant      = "file_extension"
	forbiddenExtensionCharactersConstant    = "/\\ \t*?"
	validationFailedTemplateConstant        = "invalid lint configuration: %s"
	validationRegistrationTemplateConstant  = "unable to register %s validation: %w"
	validationMessageSeparatorConstant      = "; "
	requiredFieldTemplateConstant           = "%s is required"
	minimumValueTemplateConstant            = "%s must be at least %s"
	maximumValueTemplateConstant            = "%s must be at most %s"
	fileExtensionTemplateConstant           = "%s must be a file extension such as .cpp"
	genericValidationTemplateConstant       = "%s failed validation: %s"
	requiredValidationTagConstant           = "required"
	minimumValidationTagConstant            = "min"
	maximumValidationTagConstant            = "max"
	gteValidationTagConstant                = "gte"
)

var lintConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

// Configuration captures the persisted settings of the lint command.
type Configuration struct {
	Baseline        string              `mapstructure:"baseline" validate:"required"`
	RepositoryRoot  string              `mapstructure:"repository_root"`
	Exclude         []string            `mapstructure:"exclude"`
	ExcludeFile     string              `mapstructure:"exclude_file"`
	RemediationHint string              `mapstructure:"remediation_hint" validate:"required"`
	Timeout         time.Duration       `mapstructure:"timeout" validate:"gte=0"`
	Git             GitConfiguration    `mapstructure:"git"`
	Native          NativeConfiguration `mapstructure:"native"`
	Script          ScriptConfiguration `mapstructure:"script"`
}

// GitConfiguration selects the git executable.
type GitConfiguration struct {
	Binary string `mapstructure:"binary" validate:"required"`
}

// NativeConfiguration configures clang-format.
type NativeConfiguration struct {
	Binary     string   `mapstructure:"binary" validate:"required"`
	Style      string   `mapstructure:"style"`
	Extensions []string `mapstructure:"extensions" validate:"dive,file_extension"`
}

// ScriptConfiguration configures black.
type ScriptConfiguration struct {
	Binary                  string   `mapstructure:"binary" validate:"required"`
	TargetVersion           string   `mapstructure:"target_version"`
	NeedsFormattingExitCode int      `mapstructure:"needs_formatting_exit_code" validate:"min=1,max=255"`
	Extensions              []string `mapstructure:"extensions" validate:"dive,file_extension"`
}

// DefaultConfiguration returns the built-in lint settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Baseline:        discovery.DefaultBaselineReference,
		RemediationHint: defaultRemediationHintConstant,
		Git:             GitConfiguration{Binary: defaultGitBinaryConstant},
		Native: NativeConfiguration{
			Binary:     defaultNativeBinaryConstant,
			Extensions: formatters.DefaultNativeExtensions(),
		},
		Script: ScriptConfiguration{
			Binary:                  defaultScriptBinaryConstant,
			NeedsFormattingExitCode: formatters.DefaultNeedsFormattingExitCode,
			Extensions:              formatters.DefaultScriptExtensions(),
		},
	}
}

// DefaultConfigurationValues flattens DefaultConfiguration into viper keys under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		baselineConfigurationKeyConstant:        defaults.Baseline,
		repositoryRootConfigurationKeyConstant:  defaults.RepositoryRoot,
		excludeConfigurationKeyConstant:         []string{},
		excludeFileConfigurationKeyConstant:     defaults.ExcludeFile,
		remediationHintConfigurationKeyConstant: defaults.RemediationHint,
		timeoutConfigurationKeyConstant:         defaults.Timeout,
		gitBinaryConfigurationKeyConstant:       defaults.Git.Binary,
		nativeBinaryConfigurationKeyConstant:    defaults.Native.Binary,
		nativeStyleConfigurationKeyConstant:     defaults.Native.Style,
		nativeExtensionsConfigurationKeyConst:   defaults.Native.Extensions,
		scriptBinaryConfigurationKeyConstant:    defaults.Script.Binary,
		scriptTargetConfigurationKeyConstant:    defaults.Script.TargetVersion,
		scriptExitCodeConfigurationKeyConstant:  defaults.Script.NeedsFormattingExitCode,
		scriptExtensionsConfigurationKeyConst:   defaults.Script.Extensions,
	}

	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixedValues := make(map[string]any, len(values))
	for key, value := range values {
		prefixedValues[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixedValues
}

// Sanitize trims values, expands the home directory in paths, and normalizes extensions.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration

	sanitized.Baseline = strings.TrimSpace(configuration.Baseline)
	sanitized.RepositoryRoot = expandPath(configuration.RepositoryRoot)
	sanitized.Exclude = sanitizeList(configuration.Exclude)
	sanitized.ExcludeFile = expandPath(configuration.ExcludeFile)
	sanitized.RemediationHint = strings.TrimSpace(configuration.RemediationHint)
	sanitized.Git.Binary = strings.TrimSpace(configuration.Git.Binary)
	sanitized.Native.Binary = strings.TrimSpace(configuration.Native.Binary)
	sanitized.Native.Style = strings.TrimSpace(configuration.Native.Style)
	sanitized.Native.Extensions = sanitizeExtensions(configuration.Native.Extensions)
	sanitized.Script.Binary = strings.TrimSpace(configuration.Script.Binary)
	sanitized.Script.TargetVersion = strings.TrimSpace(configuration.Script.TargetVersion)
	sanitized.Script.Extensions = sanitizeExtensions(configuration.Script.Extensions)

	return sanitized
}

// Validate reports every invalid field in a single error.
func (configuration Configuration) Validate() error {
	configurationValidator, validatorError := newConfigurationValidator()
	if validatorError != nil {
		return validatorError
	}

	validationError := configurationValidator.Struct(configuration)
	if validationError == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(validationError, &fieldErrors) {
		return validationError
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		messages = append(messages, formatFieldError(fieldError))
	}
	return fmt.Errorf(validationFailedTemplateConstant, strings.Join(messages, validationMessageSeparatorConstant))
}

func newConfigurationValidator() (*validator.Validate, error) {
	configurationValidator := validator.New(validator.WithRequiredStructEnabled())
	configurationValidator.RegisterTagNameFunc(func(field reflect.StructField) string {
		tagName := strings.SplitN(field.Tag.Get(mapstructureTagNameConstant), tagOptionSeparatorConstant, 2)[0]
		if tagName == ignoredFieldTagConstant {
			return ""
		}
		return tagName
	})
	if registrationError := configurationValidator.RegisterValidation(fileExtensionValidationTagConstant, isFileExtension); registrationError != nil {
		return nil, fmt.Errorf(validationRegistrationTemplateConstant, fileExtensionValidationTagConstant, registrationError)
	}
	return configurationValidator, nil
}

func isFileExtension(fieldLevel validator.FieldLevel) bool {
	extension := fieldLevel.Field().String()
	return len(extension) > 1 &&
		strings.HasPrefix(extension, configurationKeySeparatorConstant) &&
		!strings.ContainsAny(extension, forbiddenExtensionCharactersConstant)
}

func formatFieldError(fieldError validator.FieldError) string {
	fieldName := fieldError.Namespace()
	if separatorIndex := strings.Index(fieldName, configurationKeySeparatorConstant); separatorIndex >= 0 {
		fieldName = fieldName[separatorIndex+1:]
	}

	switch fieldError.Tag() {
	case requiredValidationTagConstant:
		return fmt.Sprintf(requiredFieldTemplateConstant, fieldName)
	case minimumValidationTagConstant, gteValidationTagConstant:
		return fmt.Sprintf(minimumValueTemplateConstant, fieldName, fieldError.Param())
	case maximumValidationTagConstant:
		return fmt.Sprintf(maximumValueTemplateConstant, fieldName, fieldError.Param())
	case fileExtensionValidationTagConstant:
		return fmt.Sprintf(fileExtensionTemplateConstant, fieldName)
	default:
		return fmt.Sprintf(genericValidationTemplateConstant, fieldName, fieldError.Tag())
	}
}

func expandPath(rawPath string) string {
	trimmedPath := strings.TrimSpace(rawPath)
	if len(trimmedPath) == 0 {
		return ""
	}
	return lintConfigurationHomeDirectoryExpander.Expand(trimmedPath)
}

func sanitizeList(rawValues []string) []string {
	sanitizedValues := make([]string, 0, len(rawValues))
	for _, rawValue := range rawValues {
		trimmedValue := strings.TrimSpace(rawValue)
		if len(trimmedValue) == 0 {
			continue
		}
		sanitizedValues = append(sanitizedValues, trimmedValue)
	}
	return sanitizedValues
}

// sanitizeExtensions keeps malformed entries such as "src/.cpp" so that Validate can report them.
func sanitizeExtensions(rawExtensions []string) []string {
	sanitizedExtensions := make([]string, 0, len(rawExtensions))
	for _, rawExtension := range rawExtensions {
		normalizedExtension := formatters.NormalizeExtension(rawExtension)
		if len(normalizedExtension) == 0 {
			continue
		}
		sanitizedExtensions = append(sanitizedExtensions, normalizedExtension)
	}
	return sanitizedExtensions
}

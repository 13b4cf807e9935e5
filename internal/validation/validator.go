// =============================================================================
// BOM Structure Converter - Request Validation
// =============================================================================
//
// This module validates a conversion request before any file is touched:
// the input file must exist and be an .xlsx export, the assembly code must
// be something we can safely put into file and folder names, and the
// conversion type must be one the tool knows.
//
// Struct-level rules are declared with go-playground/validator tags;
// the file checks need the file system and are done by hand.
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olsenbrasil/bom-csv-conversion/pkg/utils"
)

// Conversion types accepted by the tool.
const (
	TypeStructure    = "structure"
	TypeParts        = "parts"
	TypeDescriptions = "descriptions"
	TypeMaterials    = "materials"
	TypeVerifyOLZ    = "verify-olz"
)

// Request is a single conversion request.
type Request struct {
	// InputFile is the path of the .xlsx export.
	InputFile string `validate:"required"`

	// Assembly is the top-level assembly code, used to name the output
	// folder and files. Letters, digits, dashes and underscores only.
	Assembly string `validate:"required,assemblycode"`

	// Type selects the conversion.
	Type string `validate:"required,oneof=structure parts descriptions materials verify-olz"`

	// ReferenceFile is required by the OLZ verification only.
	ReferenceFile string
}

// Validator checks conversion requests.
type Validator struct {
	validate *validator.Validate
}

// New returns a request validator with the custom rules registered.
func New() *Validator {
	v := validator.New()

	// assemblycode: file-name-safe identifier.
	_ = v.RegisterValidation("assemblycode", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return false
		}
		for _, r := range s {
			switch {
			case r >= 'A' && r <= 'Z':
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-' || r == '_':
			default:
				return false
			}
		}
		return true
	})

	return &Validator{validate: v}
}

// ValidateRequest checks the struct rules and the file system facts.
func (v *Validator) ValidateRequest(req *Request) error {
	if err := v.validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			return fmt.Errorf("invalid request: %s", describeFieldErrors(fieldErrs))
		}
		return fmt.Errorf("invalid request: %w", err)
	}

	if !utils.FileExists(req.InputFile) {
		return fmt.Errorf("input file %s does not exist", req.InputFile)
	}
	if !strings.EqualFold(filepath.Ext(req.InputFile), ".xlsx") {
		return fmt.Errorf("input file %s is not an .xlsx export", req.InputFile)
	}

	if req.Type == TypeVerifyOLZ {
		if req.ReferenceFile == "" {
			return fmt.Errorf("the %s conversion needs a reference file (--reference or config)", TypeVerifyOLZ)
		}
		if !utils.FileExists(req.ReferenceFile) {
			return fmt.Errorf("reference file %s does not exist", req.ReferenceFile)
		}
	}

	return nil
}

// describeFieldErrors turns validator tags into readable messages.
func describeFieldErrors(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "assemblycode":
			msgs = append(msgs, fmt.Sprintf("assembly code %q may only contain letters, digits, dashes and underscores", fe.Value()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("unknown conversion type %q (want one of: %s)", fe.Value(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

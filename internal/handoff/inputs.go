package handoff

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultInputsFile is where the last vendor form inputs are kept.
const DefaultInputsFile = "inputs.json"

var ErrNoInputs = errors.New("no saved inputs")

// Inputs are the values last entered for a vendor, the password is never saved.
type Inputs struct {
	Email      string `json:"email"`
	VendorName string `json:"vendor_name"`
	PinNo      string `json:"pin_no"`
}

// SaveInputs overwrites the inputs file.
func SaveInputs(path string, in Inputs) error {
	if path == "" {
		path = DefaultInputsFile
	}
	contents, err := json.MarshalIndent(in, "", "    ")
	if err != nil {
		return err
	}
	err = writeFileAtomic(path, contents)
	if err != nil {
		return fmt.Errorf("save inputs: %w", err)
	}
	return nil
}

// LoadInputs reads the inputs file, a missing, empty or malformed file
// yields ErrNoInputs.
func LoadInputs(path string) (Inputs, error) {
	if path == "" {
		path = DefaultInputsFile
	}
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Inputs{}, ErrNoInputs
	}
	if err != nil {
		return Inputs{}, fmt.Errorf("load inputs: %w", err)
	}
	var in Inputs
	err = json.Unmarshal(contents, &in)
	if err != nil || in == (Inputs{}) {
		return Inputs{}, ErrNoInputs
	}
	return in, nil
}

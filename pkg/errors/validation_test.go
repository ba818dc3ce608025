package errors

import "testing"

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{name: "plain text", text: "A1", wantErr: false},
		{name: "bengali text", text: "ক", wantErr: false},
		{name: "empty", text: "", wantErr: true},
		{name: "whitespace only", text: "   \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePageCount(t *testing.T) {
	if err := ValidatePageCount(1); err != nil {
		t.Errorf("ValidatePageCount(1) = %v, want nil", err)
	}
	if err := ValidatePageCount(0); err == nil {
		t.Error("ValidatePageCount(0) = nil, want error")
	}
	if err := ValidatePageCount(-3); err == nil {
		t.Error("ValidatePageCount(-3) = nil, want error")
	}
}

func TestValidateRepeatCount(t *testing.T) {
	if err := ValidateRepeatCount(5); err != nil {
		t.Errorf("ValidateRepeatCount(5) = %v, want nil", err)
	}
	if err := ValidateRepeatCount(0); err == nil {
		t.Error("ValidateRepeatCount(0) = nil, want error")
	}
}

func TestValidateSizeRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		wantErr  bool
	}{
		{name: "valid range", min: 6, max: 11, wantErr: false},
		{name: "single size", min: 8, max: 8, wantErr: false},
		{name: "inverted", min: 11, max: 6, wantErr: true},
		{name: "zero minimum", min: 0, max: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSizeRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSizeRange(%d, %d) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		wantErr bool
	}{
		{name: "nine columns", weights: []float64{1.25, 1.65, 1.35, 1.10, 1.10, 1.05, 1.05, 1.05, 1.15}, wantErr: false},
		{name: "single column", weights: []float64{1}, wantErr: false},
		{name: "empty", weights: nil, wantErr: true},
		{name: "zero weight", weights: []float64{1, 0, 1}, wantErr: true},
		{name: "negative weight", weights: []float64{1, -0.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWeights(tt.weights)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWeights(%v) error = %v, wantErr %v", tt.weights, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimension(t *testing.T) {
	if err := ValidateDimension("page width", 288); err != nil {
		t.Errorf("ValidateDimension(288) = %v, want nil", err)
	}
	if err := ValidateDimension("page width", 0); err == nil {
		t.Error("ValidateDimension(0) = nil, want error")
	}
}

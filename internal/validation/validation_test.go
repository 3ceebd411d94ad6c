package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "user@example.com", wantErr: false},
		{name: "valid email with plus", email: "user+tag@example.com", wantErr: false},
		{name: "empty email", email: "", wantErr: true},
		{name: "missing at", email: "userexample.com", wantErr: true},
		{name: "missing domain dot", email: "user@example", wantErr: true},
		{name: "contains space", email: "us er@example.com", wantErr: true},
		{name: "double at", email: "user@@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
}

func TestValidateUploadFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "xlsx accepted", filename: "report.xlsx", wantErr: false},
		{name: "xls accepted", filename: "old-report.xls", wantErr: false},
		{name: "docx accepted", filename: "letter.docx", wantErr: false},
		{name: "pptx accepted", filename: "slides.pptx", wantErr: false},
		{name: "pdf accepted", filename: "scan.pdf", wantErr: false},
		{name: "txt accepted", filename: "notes.txt", wantErr: false},
		{name: "rtf accepted", filename: "memo.rtf", wantErr: false},
		{name: "uppercase extension accepted", filename: "REPORT.XLSX", wantErr: false},
		{name: "csv rejected", filename: "report.csv", wantErr: true},
		{name: "exe rejected", filename: "setup.exe", wantErr: true},
		{name: "no extension rejected", filename: "README", wantErr: true},
		{name: "trailing dot rejected", filename: "file.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadFilename(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, "xlsx", FileExt("report.xlsx"))
	assert.Equal(t, "xlsx", FileExt("REPORT.XLSX"))
	assert.Equal(t, "txt", FileExt("archive.tar.txt"))
	assert.Equal(t, "", FileExt("README"))
}

func TestValidateTopUpAmount(t *testing.T) {
	assert.Error(t, ValidateTopUpAmount(0, 10))
	assert.Error(t, ValidateTopUpAmount(-5, 10))
	assert.Error(t, ValidateTopUpAmount(9, 10))
	assert.NoError(t, ValidateTopUpAmount(10, 10))
	assert.NoError(t, ValidateTopUpAmount(500, 10))
}

package lexutil_test

import (
	"testing"

	"github.com/lookbusy1344/riscv-sim/internal/lexutil"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims and strips comment", "  addi x5, x0, 7 ; load 7\n", "addi x5  x0  7"},
		{"comma to space", "add x1,x2,x3", "add x1 x2 x3"},
		{"comment only", "; nothing here", ""},
		{"blank", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lexutil.Format(tt.in); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitWords(t *testing.T) {
	got := lexutil.SplitWords("addi  x5   x0 7")
	want := []string{"addi", "x5", "x0", "7"}
	if len(got) != len(want) {
		t.Fatalf("SplitWords: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseSigned(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		width   int
		want    int64
		wantErr bool
	}{
		{"decimal", "7", 12, 7, false},
		{"negative decimal", "-7", 12, -7, false},
		{"hex", "0x7f", 12, 0x7f, false},
		{"max 12-bit", "2047", 12, 2047, false},
		{"min 12-bit", "-2048", 12, -2048, false},
		{"too large", "2048", 12, 0, true},
		{"too negative", "-2049", 12, 0, true},
		{"uppercase hex rejected", "0x7F", 12, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lexutil.ParseSigned(tt.in, tt.width)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSigned(%q, %d) = %d, want error", tt.in, tt.width, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSigned(%q, %d) unexpected error: %v", tt.in, tt.width, err)
			}
			if got != tt.want {
				t.Errorf("ParseSigned(%q, %d) = %d, want %d", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestParseUnsigned(t *testing.T) {
	if _, err := lexutil.ParseUnsigned("-1", 8); err == nil {
		t.Error("ParseUnsigned(\"-1\", 8) should fail, negative not allowed")
	}
	got, err := lexutil.ParseUnsigned("0xff", 8)
	if err != nil || got != 255 {
		t.Errorf("ParseUnsigned(\"0xff\", 8) = %d, %v, want 255, nil", got, err)
	}
	if _, err := lexutil.ParseUnsigned("256", 8); err == nil {
		t.Error("ParseUnsigned(\"256\", 8) should fail, out of range")
	}
}

func TestParseData(t *testing.T) {
	// data tokens may be written either signed or unsigned within the width
	got, err := lexutil.ParseData("0xdeadbeef", 32)
	if err != nil {
		t.Fatalf("ParseData unsigned-looking value failed: %v", err)
	}
	if got != 0xdeadbeef {
		t.Errorf("ParseData(0xdeadbeef) = %#x, want %#x", got, 0xdeadbeef)
	}
	if _, err := lexutil.ParseData("-1", 8); err != nil {
		t.Errorf("ParseData(-1, 8) should be accepted: %v", err)
	}

	// width=64 must not overflow the upper-bound shift to 0 and reject
	// every value (the .dword directive's only width).
	got, err = lexutil.ParseData("0xdeadbeefcafebabe", 64)
	if err != nil {
		t.Fatalf("ParseData(0xdeadbeefcafebabe, 64) failed: %v", err)
	}
	if uint64(got) != 0xdeadbeefcafebabe {
		t.Errorf("ParseData(0xdeadbeefcafebabe, 64) = %#x, want %#x", uint64(got), uint64(0xdeadbeefcafebabe))
	}
	if _, err := lexutil.ParseData("0", 64); err != nil {
		t.Errorf("ParseData(\"0\", 64) should be accepted: %v", err)
	}
	if _, err := lexutil.ParseData("-1", 64); err != nil {
		t.Errorf("ParseData(-1, 64) should be accepted: %v", err)
	}
}

func TestResolveRegister(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"zero", 0}, {"ra", 1}, {"sp", 2}, {"fp", 8}, {"s0", 8},
		{"a0", 10}, {"a7", 17}, {"t6", 31}, {"x0", 0}, {"x31", 31},
	}
	for _, tt := range tests {
		got, err := lexutil.ResolveRegister(tt.name)
		if err != nil {
			t.Errorf("ResolveRegister(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveRegister(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}

	if _, err := lexutil.ResolveRegister("x32"); err == nil {
		t.Error("ResolveRegister(\"x32\") should fail")
	}
	if _, err := lexutil.ResolveRegister("bogus"); err == nil {
		t.Error("ResolveRegister(\"bogus\") should fail")
	}
}

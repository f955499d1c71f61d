package model

import "testing"

func TestEqual_EmptyHandling(t *testing.T) {
	cases := []struct {
		name string
		a, b *string
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs empty string", nil, Ptr(""), true},
		{"empty vs empty", Ptr(""), Ptr(""), true},
		{"nil vs value", nil, Ptr("x"), false},
		{"empty vs value", Ptr(""), Ptr("x"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, ft := range []FieldType{TypeString, TypeInt, TypeFloat, TypeBool, TypeTime} {
				got, err := Equal(ft, tc.a, tc.b)
				if err != nil {
					t.Fatalf("Equal(%d) failed: %v", ft, err)
				}
				if got != tc.want {
					t.Errorf("Equal(%d) = %v, want %v", ft, got, tc.want)
				}
			}
		})
	}
}

func TestEqual_StringNFC(t *testing.T) {
	// U+00E9 precomposed vs U+0065 U+0301 combining: same text, different
	// bytes.
	precomposed := "café"
	decomposed := "café"

	got, err := Equal(TypeString, Ptr(precomposed), Ptr(decomposed))
	if err != nil {
		t.Fatalf("Equal() failed: %v", err)
	}
	if !got {
		t.Error("NFC-equivalent strings should compare equal")
	}

	got, err = Equal(TypeString, Ptr("café"), Ptr("cafe"))
	if err != nil {
		t.Fatalf("Equal() failed: %v", err)
	}
	if got {
		t.Error("different strings should not compare equal")
	}
}

func TestEqual_Parsed(t *testing.T) {
	cases := []struct {
		name string
		ft   FieldType
		a, b string
		want bool
	}{
		{"int leading zero", TypeInt, "1", "01", true},
		{"int whitespace", TypeInt, " 42", "42", true},
		{"int different", TypeInt, "1", "2", false},
		{"time as millis", TypeTime, "1700000000000", "1700000000000", true},
		{"float spelling", TypeFloat, "1.50", "1.5", true},
		{"float different", TypeFloat, "1.5", "1.6", false},
		{"bool spellings", TypeBool, "true", "1", true},
		{"bool case", TypeBool, "TRUE", "true", true},
		{"bool false spellings", TypeBool, "false", "0", true},
		{"bool different", TypeBool, "true", "false", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Equal(tc.ft, Ptr(tc.a), Ptr(tc.b))
			if err != nil {
				t.Fatalf("Equal() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestEqual_ParseErrors(t *testing.T) {
	if _, err := Equal(TypeInt, Ptr("twelve"), Ptr("12")); err == nil {
		t.Error("expected error for unparseable int")
	}
	if _, err := Equal(TypeBool, Ptr("yes"), Ptr("true")); err == nil {
		t.Error("expected error for unparseable bool")
	}
	if _, err := Equal(TypeFloat, Ptr("1.5"), Ptr("x")); err == nil {
		t.Error("expected error for unparseable float")
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "1", "TRUE", " true "} {
		v, err := ParseBool(s)
		if err != nil || !v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"false", "0", "False"} {
		v, err := ParseBool(s)
		if err != nil || v {
			t.Errorf("ParseBool(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := ParseBool("on"); err == nil {
		t.Error("expected error for unknown bool spelling")
	}
}

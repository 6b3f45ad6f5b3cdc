package gsuite

import "testing"

func TestIndexToA1Column(t *testing.T) {
	cases := map[int]string{
		0:  "A",
		1:  "B",
		25: "Z",
		26: "AA",
		27: "AB",
		51: "AZ",
		52: "BA",
	}
	for index, want := range cases {
		if got := IndexToA1Column(index); got != want {
			t.Errorf("IndexToA1Column(%d) = %q, want %q", index, got, want)
		}
	}
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	if Cell(row, 0) != "a" || Cell(row, 1) != "b" {
		t.Error("in-range cells wrong")
	}
	if Cell(row, 2) != "" || Cell(row, -1) != "" {
		t.Error("out-of-range cells should be empty")
	}
}

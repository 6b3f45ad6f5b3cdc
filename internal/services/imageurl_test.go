package services

import "testing"

func TestExtractImageURL(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "image formula with drive id maps to view endpoint",
			value: `=IMAGE("https://drive.google.com/uc?id=1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO&export=download"; 4; 300; 300)`,
			want:  "/api/photos/view/1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO",
		},
		{
			name:  "drive file path link",
			value: "https://drive.google.com/file/d/1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO/view",
			want:  "/api/photos/view/1aUQq2TmlgcnrWlTpDGEGyr5qSpYTRLIO",
		},
		{
			name:  "plain https url passes through",
			value: "https://example.com/file.jpg",
			want:  "https://example.com/file.jpg",
		},
		{
			name:  "non-url content",
			value: "sin enlace",
			want:  "",
		},
		{
			name:  "empty cell",
			value: "   ",
			want:  "",
		},
		{
			name:  "short id is not treated as a drive id",
			value: "https://drive.google.com/uc?id=short",
			want:  "https://drive.google.com/uc?id=short",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractImageURL(tc.value); got != tc.want {
				t.Errorf("ExtractImageURL(%q) = %q, want %q", tc.value, got, tc.want)
			}
		})
	}
}

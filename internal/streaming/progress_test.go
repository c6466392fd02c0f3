package streaming

import (
	"io"
	"strings"
	"testing"
)

func TestProgressReader(t *testing.T) {
	var reports []int64
	pr := &ProgressReader{
		Reader:     strings.NewReader("0123456789"),
		Size:       10,
		OnProgress: func(n int64) { reports = append(reports, n) },
	}

	buf := make([]byte, 4)
	for {
		if _, err := pr.Read(buf); err == io.EOF {
			break
		}
	}

	if len(reports) == 0 || reports[len(reports)-1] != 10 {
		t.Errorf("Ожидался итоговый прогресс 10, получено %v", reports)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Errorf("Прогресс не должен убывать: %v", reports)
		}
	}
}

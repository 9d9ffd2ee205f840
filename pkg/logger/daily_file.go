package logger

import (
	"os"
	"sync"
	"time"
)

// dailyFile is a zapcore.WriteSyncer that appends to the category file of the
// current day, switching files when the date changes
type dailyFile struct {
	dir      string
	category LogCategory
	now      func() time.Time

	mu   sync.Mutex
	day  string
	file *os.File
}

func newDailyFile(dir string, category LogCategory, now func() time.Time) (*dailyFile, error) {
	if now == nil {
		now = time.Now
	}
	df := &dailyFile{dir: dir, category: category, now: now}
	if err := df.rotate(now()); err != nil {
		return nil, err
	}
	return df, nil
}

func (df *dailyFile) Write(p []byte) (int, error) {
	df.mu.Lock()
	defer df.mu.Unlock()

	if now := df.now(); now.Format("20060102") != df.day || df.file == nil {
		if err := df.rotate(now); err != nil {
			return 0, err
		}
	}
	return df.file.Write(p)
}

// rotate opens the file for date and closes the previous one. Callers hold mu
// except during construction.
func (df *dailyFile) rotate(date time.Time) error {
	file, err := os.OpenFile(categoryLogPath(df.dir, df.category, date), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if df.file != nil {
		_ = df.file.Close()
	}
	df.file = file
	df.day = date.Format("20060102")
	return nil
}

func (df *dailyFile) Sync() error {
	df.mu.Lock()
	defer df.mu.Unlock()

	if df.file == nil {
		return nil
	}
	return df.file.Sync()
}

func (df *dailyFile) Close() error {
	df.mu.Lock()
	defer df.mu.Unlock()

	if df.file == nil {
		return nil
	}
	err := df.file.Close()
	df.file = nil
	return err
}

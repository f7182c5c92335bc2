package resources

import (
	"bytes"
	"embed"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
)

//go:embed sounds/*.wav
var soundFS embed.FS

//go:embed icon.png
var iconData []byte

// Icon returns the application and tray icon.
func Icon() fyne.Resource {
	return fyne.NewStaticResource("icon.png", iconData)
}

// Sound returns a reader over the named embedded sound file.
func Sound(fileName string) (io.ReadCloser, error) {
	data, err := soundFS.ReadFile("sounds/" + fileName)
	if err != nil {
		return nil, fmt.Errorf("load sound %s: %w", fileName, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

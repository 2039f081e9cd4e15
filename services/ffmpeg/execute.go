package ffmpeg

import (
	"os/exec"

	"github.com/cutforge/cutforge/utils"
)

// Do runs ffmpeg with the given arguments, reporting parsed progress lines
// through progressCallback.
func Do(arguments []string, info StreamInfo, progressCallback ProgressCallback) (string, error) {
	cmd := exec.Command("ffmpeg", arguments...)

	return utils.ExecuteCmd(cmd, parseProgressCallback(arguments, info, progressCallback))
}

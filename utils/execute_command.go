package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
)

// ExecuteCmd runs cmd, streaming stdout line-by-line through outputCallback
// before returning the whole stdout at the end. Stderr is buffered and
// included in the returned error on failure.
func ExecuteCmd(cmd *exec.Cmd, outputCallback func(string)) (string, error) {
	stdout, _ := cmd.StdoutPipe()

	errorBytes := bytes.Buffer{}
	cmd.Stderr = &errorBytes

	err := cmd.Start()
	if err != nil {
		return "", fmt.Errorf("start failed %s", err.Error())
	}

	var result string

	scanner := bufio.NewScanner(stdout)
	scanner.Split(bufio.ScanLines)
	for scanner.Scan() {
		line := scanner.Text()
		result += line + "\n"
		if outputCallback != nil {
			outputCallback(line)
		}
	}

	err = cmd.Wait()
	if err != nil {
		return "", fmt.Errorf("execution failed error: %s,\nmessage: %s", err.Error(), errorBytes.String())
	}

	return result, nil
}

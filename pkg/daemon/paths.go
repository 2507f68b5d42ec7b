package daemon

import (
	"net/url"
	"strings"
)

// Endpoint paths relative to the base URL.
const (
	pathWakeUp       = "/move/play/wake_up"
	pathGotoSleep    = "/move/play/goto_sleep"
	pathGoto         = "/move/goto"
	pathSetMotorMode = "/motors/set_mode/"
	pathMotorStatus  = "/motors/status"
	pathFullState    = "/state/full"
	pathDaemonStatus = "/daemon/status"
	pathPlayRecorded = "/move/play/recorded-move-dataset/"
	pathListRecorded = "/move/recorded-move-datasets/list/"
	pathStopMove     = "/move/stop"
	pathRunningMoves = "/move/running"
)

// datasetPath escapes each slash-separated segment of a dataset identifier on
// its own, so "org/lib" stays two path segments instead of "org%2Flib".
func datasetPath(dataset string) string {
	segments := strings.Split(dataset, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func playRecordedPath(dataset, move string) string {
	return pathPlayRecorded + datasetPath(dataset) + "/" + url.PathEscape(move)
}

func listRecordedPath(dataset string) string {
	return pathListRecorded + datasetPath(dataset)
}

func setMotorModePath(mode MotorMode) string {
	return pathSetMotorMode + url.PathEscape(string(mode))
}

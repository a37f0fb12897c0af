package notifier

import (
	"context"

	"k8s.io/klog"
)

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (n *LogNotifier) Info(_ context.Context, message string) error {
	klog.Infoln(message)
	return nil
}

func (n *LogNotifier) Err(_ context.Context, message string) error {
	klog.Errorln(message)
	return nil
}

package models

import (
	"log/slog"
	"strings"

	"github.com/vk/rosrecover/internal/interp"
)

// imageTransport models the image_transport/republish node, which bridges
// one image transport to another. The in/out topics and the transport
// format come from the node's argument string.
type imageTransport struct{}

func (imageTransport) Register(reg *interp.Registry) error {
	return reg.Register("image_transport", "republish", republish)
}

func republish(c *interp.NodeContext) {
	inTopic := "in"
	outTopic := "out"
	format := "raw"

	for _, arg := range strings.Fields(c.Args()) {
		switch {
		case arg == "raw" || arg == "compressed" || arg == "theora":
			format = arg
		case strings.HasPrefix(arg, "in:="):
			inTopic = strings.TrimPrefix(arg, "in:=")
		case strings.HasPrefix(arg, "out:="):
			outTopic = strings.TrimPrefix(arg, "out:=")
		default:
			slog.Error("invalid argument for image_transport/republish", "arg", arg)
		}
	}
	slog.Debug("republish transport selected", "node", c.Name(), "format", format)

	c.Sub(inTopic, "sensor_msgs/Image")
	c.Pub(outTopic, "sensor_msgs/Image")
}

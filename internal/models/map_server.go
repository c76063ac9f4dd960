package models

import (
	"log/slog"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rosrecover/internal/interp"
)

// mapServer models map_server/map_server, which serves a static occupancy
// grid loaded from the map file named in its argument string.
type mapServer struct{}

func (mapServer) Register(reg *interp.Registry) error {
	return reg.Register("map_server", "map_server", serveMap)
}

func serveMap(c *interp.NodeContext) {
	if mapFile := strings.TrimSpace(c.Args()); mapFile != "" {
		if _, err := c.ReadFile(mapFile); err != nil {
			slog.Warn("map file is not readable", "node", c.Name(), "file", mapFile, "error", err)
		}
	}

	c.ReadParam("~frame_id", cty.StringVal("map"), false)

	c.Pub("map", "nav_msgs/OccupancyGrid")
	c.Pub("map_metadata", "nav_msgs/MapMetaData")
	c.ProvideService("static_map", "nav_msgs/GetMap")
}

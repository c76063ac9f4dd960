package models

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/rosrecover/internal/interp"
)

// robotStatePublisher models robot_state_publisher, which forwards joint
// states into the transform tree described by the robot_description
// parameter.
type robotStatePublisher struct{}

func (robotStatePublisher) Register(reg *interp.Registry) error {
	return reg.Register("robot_state_publisher", "robot_state_publisher", publishRobotState)
}

func publishRobotState(c *interp.NodeContext) {
	c.ReadParam("robot_description", cty.NullVal(cty.String), false)
	c.ReadParam("~publish_frequency", cty.NumberFloatVal(50.0), false)
	c.ReadParam("~tf_prefix", cty.StringVal(""), false)

	c.Sub("joint_states", "sensor_msgs/JointState")
	c.Pub("/tf", "tf2_msgs/TFMessage")
	c.Pub("/tf_static", "tf2_msgs/TFMessage")
}

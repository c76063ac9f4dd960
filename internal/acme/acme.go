// Package acme renders a recovered node set into an Acme architecture
// description and drives the external structural checker over it.
package acme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/rosrecover/internal/interp"
)

const (
	nodeComponent = `   component %s : ROSNodeCompT = new ROSNodeCompT extended with {
%s
        property name = %q;
        property launch_file = %q;
    };
`
	placeholderComponent = `   component %s : ROSNodeCompT, PlaceholderT = new ROSNodeCompT, PlaceholderT extended with {
%s
        property name = %q;
        property placeholder = true;
        property launch_file = %q;
    };
`
	advertiserPort = `     port %s : TopicAdvertisePortT = new TopicAdvertisePortT extended with {
        property msg_type = %q;
        property topic = %q;
    };
`
	subscriberPort = `     port %s : TopicSubscribePortT = new TopicSubscribePortT extended with {
        property msg_type = %q;
        property topic = %q;
    };
`
	providerPort = `     port %s : ServiceProviderPortT = new ServiceProviderPortT extended with {
        property svc_type : string = %q;
        property name : string = %q;
        property args : string = "";
    };
`
	clientPort = `     port %s : ServiceClientPortT = new ServiceClientPortT extended with {
        property svc_type : string = %q;
    };
`
	actionServerPort = `    port %s : ActionServerPortT = new ActionServerPortT extended with {
        property action_type : string = %q;
    };
`
	actionClientPort = `    port %s : ActionClientPortT = new ActionClientPortT extended with {
        property action_type : string = %q;
    };
`
	topicConnector = `   connector %s : TopicConnectorT = new TopicConnectorT extended with {
%s
        property msg_type = %q;
        property topic = %q;
    };
`
	serviceConnector = `  connector %s : ServiceConnT = new ServiceConnT extended with {
%s
    };
`
	actionConnector = `  connector %s : ActionServerConnT = new ActionServerConnT extended with {
%s
    };
`
	advertiserRole = `     role %s : ROSTopicAdvertiserRoleT = new ROSTopicAdvertiserRoleT;
`
	subscriberRole = `    role %s : ROSTopicSubscriberRoleT = new ROSTopicSubscriberRoleT;
`
	providerRole = `     role %s : ROSServiceProviderRoleT = new ROSServiceProviderRoleT;
`
	callerRole = `       role %s : ROSServiceCallRoleT = new ROSServiceCallRoleT;
`
	actionServerRole = `      role %s : ROSActionResponderRoleT = new ROSActionResponderRoleT;
`
	actionClientRole = `      role %s : ROSActionCallerRoleT = new ROSActionCallerRoleT;
`
)

// Generator renders a set of node summaries into one Acme system.
type Generator struct {
	SystemName string
	Nodes      []interp.NodeSummary
}

var identReplacer = strings.NewReplacer("/", "_", ".", "_")

// Name converts a fully qualified ROS name into a legal Acme identifier.
func Name(name string) string {
	return identReplacer.Replace(name)
}

type topicEndpoints struct {
	format string
	pubs   []string
	subs   []string
}

type serviceEndpoints struct {
	providers []string // qualified component.port
	callers   []string
}

type actionEndpoints struct {
	servers []string
	clients []string
}

// Generate renders the Acme description. Topic connectors are only emitted
// for topics with more than one endpoint, and service/action connectors
// only where both sides are present; dangling connectors are suppressed.
func (g *Generator) Generate() string {
	system := g.SystemName
	if system == "" {
		system = "RobotSystem"
	}

	topics := make(map[string]*topicEndpoints)
	services := make(map[string]*serviceEndpoints)
	actions := make(map[string]*actionEndpoints)
	topicAttachments := make(map[string][]string)

	var b strings.Builder
	fmt.Fprintf(&b, "import families/ROSFam.acme;\nsystem %s : ROSFam = new ROSFam extended with {\n", system)

	var attachments []string

	for _, node := range g.Nodes {
		comp := Name(node.Name)
		var ports strings.Builder

		for _, pub := range node.Pubs {
			port := Name(pub.Name) + "_pub"
			fmt.Fprintf(&ports, advertiserPort, port, pub.Format, pub.Name)
			t := topicFor(topics, pub.Name, pub.Format)
			t.pubs = append(t.pubs, comp)
			topicAttachments[pub.Name] = append(topicAttachments[pub.Name],
				fmt.Sprintf("  attachment %s.%s to %s_conn.%s_pub;", comp, port, Name(pub.Name), comp))
		}
		for _, sub := range node.Subs {
			port := Name(sub.Name) + "_sub"
			fmt.Fprintf(&ports, subscriberPort, port, sub.Format, sub.Name)
			t := topicFor(topics, sub.Name, sub.Format)
			t.subs = append(t.subs, comp)
			topicAttachments[sub.Name] = append(topicAttachments[sub.Name],
				fmt.Sprintf("  attachment %s.%s to %s_conn.%s_sub;", comp, port, Name(sub.Name), comp))
		}
		for _, svc := range node.Provides {
			port := Name(svc.Name) + "_svc"
			fmt.Fprintf(&ports, providerPort, port, svc.Format, svc.Name)
			s := serviceFor(services, svc.Name)
			s.providers = append(s.providers, comp+"."+port)
		}
		for _, svc := range node.Uses {
			port := Name(svc.Name) + "_call"
			fmt.Fprintf(&ports, clientPort, port, svc.Format)
			s := serviceFor(services, svc.Name)
			s.callers = append(s.callers, comp+"."+port)
		}
		for _, act := range node.ActServers {
			port := Name(act.Name) + "_srvr"
			fmt.Fprintf(&ports, actionServerPort, port, act.Format)
			a := actionFor(actions, act.Name)
			a.servers = append(a.servers, comp+"."+port)
		}
		for _, act := range node.ActClients {
			port := Name(act.Name) + "_cli"
			fmt.Fprintf(&ports, actionClientPort, port, act.Format)
			a := actionFor(actions, act.Name)
			a.clients = append(a.clients, comp+"."+port)
		}

		template := nodeComponent
		if node.Placeholder {
			template = placeholderComponent
		}
		fmt.Fprintf(&b, template, comp, strings.TrimRight(ports.String(), "\n"), node.Name, node.Filename)
	}

	for _, topic := range sortedKeys(topics) {
		t := topics[topic]
		if len(t.pubs)+len(t.subs) <= 1 {
			continue
		}
		var roles strings.Builder
		for _, p := range t.pubs {
			fmt.Fprintf(&roles, advertiserRole, p+"_pub")
		}
		for _, s := range t.subs {
			fmt.Fprintf(&roles, subscriberRole, s+"_sub")
		}
		fmt.Fprintf(&b, topicConnector, Name(topic)+"_conn",
			strings.TrimRight(roles.String(), "\n"), t.format, topic)
		attachments = append(attachments, topicAttachments[topic]...)
	}

	for _, service := range sortedKeys(services) {
		s := services[service]
		if len(s.providers) == 0 || len(s.callers) == 0 {
			continue
		}
		conn := Name(service) + "_conn"
		var roles strings.Builder
		for _, p := range s.providers {
			role := Name(p)
			fmt.Fprintf(&roles, providerRole, role)
			attachments = append(attachments, fmt.Sprintf("  attachment %s to %s.%s;", p, conn, role))
		}
		for _, c := range s.callers {
			role := Name(c)
			fmt.Fprintf(&roles, callerRole, role)
			attachments = append(attachments, fmt.Sprintf("  attachment %s to %s.%s;", c, conn, role))
		}
		fmt.Fprintf(&b, serviceConnector, conn, strings.TrimRight(roles.String(), "\n"))
	}

	for _, action := range sortedKeys(actions) {
		a := actions[action]
		if len(a.servers) == 0 || len(a.clients) == 0 {
			continue
		}
		conn := Name(action) + "_conn"
		var roles strings.Builder
		for _, s := range a.servers {
			role := Name(s)
			fmt.Fprintf(&roles, actionServerRole, role)
			attachments = append(attachments, fmt.Sprintf("  attachment %s to %s.%s;", s, conn, role))
		}
		for _, c := range a.clients {
			role := Name(c)
			fmt.Fprintf(&roles, actionClientRole, role)
			attachments = append(attachments, fmt.Sprintf("  attachment %s to %s.%s;", c, conn, role))
		}
		fmt.Fprintf(&b, actionConnector, conn, strings.TrimRight(roles.String(), "\n"))
	}

	for _, a := range attachments {
		b.WriteString(a)
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func topicFor(m map[string]*topicEndpoints, name, format string) *topicEndpoints {
	if t, ok := m[name]; ok {
		return t
	}
	t := &topicEndpoints{format: format}
	m[name] = t
	return t
}

func serviceFor(m map[string]*serviceEndpoints, name string) *serviceEndpoints {
	if s, ok := m[name]; ok {
		return s
	}
	s := &serviceEndpoints{}
	m[name] = s
	return s
}

func actionFor(m map[string]*actionEndpoints, name string) *actionEndpoints {
	if a, ok := m[name]; ok {
		return a
	}
	a := &actionEndpoints{}
	m[name] = a
	return a
}

func sortedKeys[V any](m map[string]*V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

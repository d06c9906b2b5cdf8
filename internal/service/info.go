package service

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"

	"github.com/luiz-simples/replikv.git/internal/domain"
)

const version = "7.2.0"

type section struct {
	name   string
	fields func(ctx context.Context) []domain.InfoField
}

func (handler *Handler) info(ctx context.Context, _ *Session, input domain.Input) (domain.Output, error) {
	command := input.(domain.Info)

	sections := []section{
		{"server", handler.serverInfo},
		{"clients", handler.clientsInfo},
		{"memory", memoryInfo},
		{"stats", handler.statsInfo},
		{"replication", handler.replicationInfo},
		{"keyspace", handler.keyspaceInfo},
	}

	var builder strings.Builder

	for _, current := range sections {
		if !command.Wants(current.name) {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\r\n")
		}

		builder.WriteString("# " + strings.ToUpper(current.name[:1]) + current.name[1:] + "\r\n")

		for _, field := range current.fields(ctx) {
			builder.WriteString(field.Name + ":" + field.Value + "\r\n")
		}
	}

	return domain.BulkReply{Data: []byte(builder.String())}, nil
}

func (handler *Handler) serverInfo(context.Context) []domain.InfoField {
	uptime := int64(handler.stats.Uptime().Seconds())

	return []domain.InfoField{
		{Name: "redis_version", Value: version},
		{Name: "redis_mode", Value: "standalone"},
		{Name: "process_id", Value: strconv.Itoa(os.Getpid())},
		{Name: "tcp_port", Value: handler.settings["port"]},
		{Name: "uptime_in_seconds", Value: strconv.FormatInt(uptime, 10)},
	}
}

func (handler *Handler) clientsInfo(context.Context) []domain.InfoField {
	return []domain.InfoField{
		{Name: "connected_clients", Value: strconv.FormatInt(handler.stats.Clients(), 10)},
	}
}

func memoryInfo(context.Context) []domain.InfoField {
	var memory runtime.MemStats
	runtime.ReadMemStats(&memory)

	return []domain.InfoField{
		{Name: "used_memory", Value: strconv.FormatUint(memory.HeapAlloc, 10)},
		{Name: "used_memory_human", Value: bytefmt.ByteSize(memory.HeapAlloc)},
	}
}

func (handler *Handler) statsInfo(context.Context) []domain.InfoField {
	return []domain.InfoField{
		{Name: "total_commands_processed", Value: strconv.FormatInt(handler.stats.Processed(), 10)},
		{Name: "instantaneous_ops_per_sec", Value: strconv.FormatFloat(handler.stats.OpsPerSecond(), 'f', 2, 64)},
	}
}

func (handler *Handler) replicationInfo(context.Context) []domain.InfoField {
	if handler.state == nil {
		return []domain.InfoField{{Name: "role", Value: "master"}}
	}

	return handler.state.Info()
}

func (handler *Handler) keyspaceInfo(ctx context.Context) []domain.InfoField {
	size, err := handler.repository.Size(ctx)
	if hasError(err) || size == 0 {
		return nil
	}

	return []domain.InfoField{{Name: "db0", Value: "keys=" + strconv.Itoa(size)}}
}

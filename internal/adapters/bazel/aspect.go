package bazel

import (
	"os"
	"sync"

	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// AspectParser parses the prototext target-descriptor files emitted by the
// build aspect. The message descriptor is assembled at runtime, so no
// generated code or protoc step is needed.
type AspectParser struct {
	once sync.Once
	desc protoreflect.MessageDescriptor
	err  error
}

// NewAspectParser creates a new AspectParser.
func NewAspectParser() *AspectParser {
	return &AspectParser{}
}

func (p *AspectParser) descriptor() (protoreflect.MessageDescriptor, error) {
	p.once.Do(func() {
		file := &descriptorpb.FileDescriptorProto{
			Name:    proto.String("fastbuild/target_info.proto"),
			Package: proto.String("fastbuild"),
			Syntax:  proto.String("proto3"),
			MessageType: []*descriptorpb.DescriptorProto{{
				Name: proto.String("TargetInfo"),
				Field: []*descriptorpb.FieldDescriptorProto{
					stringField("label", 1, false),
					stringField("kind", 2, false),
					stringField("sources", 3, true),
					stringField("deps", 4, true),
				},
			}},
		}

		fd, err := protodesc.NewFile(file, nil)
		if err != nil {
			p.err = err
			return
		}
		p.desc = fd.Messages().ByName("TargetInfo")
	})
	return p.desc, p.err
}

func stringField(name string, number int32, repeated bool) *descriptorpb.FieldDescriptorProto {
	label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	if repeated {
		label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	}
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
		Label:    label.Enum(),
		JsonName: proto.String(name),
	}
}

// ParseFile reads and parses a single metadata file.
func (p *AspectParser) ParseFile(path string) (*domain.TargetInfo, error) {
	desc, err := p.descriptor()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path discovered under the workspace bin directory
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrMetadataParseFailed.Error())
	}

	msg := dynamicpb.NewMessage(desc)
	if err := prototext.Unmarshal(data, msg); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMetadataParseFailed.Error())
	}

	fields := desc.Fields()
	labelStr := msg.Get(fields.ByName("label")).String()
	if labelStr == "" {
		return nil, zerr.With(zerr.With(domain.ErrMetadataParseFailed, "file", path), "reason", "missing label")
	}

	info := &domain.TargetInfo{
		Label: domain.NewLabel(labelStr),
		Kind:  domain.Kind(msg.Get(fields.ByName("kind")).String()),
	}

	sources := msg.Get(fields.ByName("sources")).List()
	for i := range sources.Len() {
		info.Sources = append(info.Sources, sources.Get(i).String())
	}
	deps := msg.Get(fields.ByName("deps")).List()
	for i := range deps.Len() {
		info.Deps = append(info.Deps, domain.NewLabel(deps.Get(i).String()))
	}
	return info, nil
}

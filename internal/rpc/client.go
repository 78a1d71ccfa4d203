package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/upgrade-ev/internal/advisor"
)

// Client calls a remote advisor.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Evaluate(ctx context.Context, req EvaluateRequest, opts ...grpc.CallOption) (advisor.ScoreDoc, error) {
	var out advisor.ScoreDoc
	err := c.invoke(ctx, evaluateMethod, req, &out, opts...)
	return out, err
}

func (c *Client) Rank(ctx context.Context, req RankRequest, opts ...grpc.CallOption) ([]advisor.ScoreDoc, error) {
	var out RankResponse
	if err := c.invoke(ctx, rankMethod, req, &out, opts...); err != nil {
		return nil, err
	}
	return out.Scores, nil
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return err
	}
	return fromStruct(out, resp)
}

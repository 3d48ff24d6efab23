// Package temporal implements the remote capability on top of the Temporal
// WorkflowService gRPC API.
package temporal

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/tuiporal/internal/remote"
	"github.com/google/uuid"
	commonpb "go.temporal.io/api/common/v1"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/workflowservice/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// TLSOptions configures transport security. Certificate and key enable
// mutual TLS; CAPath replaces the system roots.
type TLSOptions struct {
	Enabled  bool
	CertPath string
	KeyPath  string
	CAPath   string
}

// Options describes how to reach a Temporal frontend.
type Options struct {
	Address        string
	TLS            *TLSOptions
	APIKey         string
	Identity       string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// DialOptions are appended to the options derived from the fields above.
	DialOptions []grpc.DialOption
}

// Client is a connected WorkflowService client.
type Client struct {
	conn     *grpc.ClientConn
	service  workflowservice.WorkflowServiceClient
	identity string
	timeout  time.Duration
}

var _ remote.Capability = (*Client)(nil)

// Dial connects to opts.Address and verifies the connection with a
// GetSystemInfo call. Failures are reported as *remote.ConnectionError.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	if opts.Address == "" {
		return nil, &remote.ConnectionError{Err: errors.New("no address configured")}
	}
	creds, err := transportCredentials(opts.TLS)
	if err != nil {
		return nil, &remote.ConnectionError{Address: opts.Address, Err: err}
	}
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if opts.APIKey != "" {
		secure := opts.TLS != nil && opts.TLS.Enabled
		dialOpts = append(dialOpts, grpc.WithPerRPCCredentials(bearerToken{token: opts.APIKey, secure: secure}))
	}
	dialOpts = append(dialOpts, opts.DialOptions...)

	conn, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		return nil, &remote.ConnectionError{Address: opts.Address, Err: err}
	}
	c := &Client{
		conn:     conn,
		service:  workflowservice.NewWorkflowServiceClient(conn),
		identity: opts.Identity,
		timeout:  opts.RequestTimeout,
	}
	if c.identity == "" {
		c.identity = DefaultIdentity()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultRequestTimeout
	}

	connectTimeout := opts.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	hctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if _, err := c.service.GetSystemInfo(hctx, &workflowservice.GetSystemInfoRequest{}); err != nil {
		_ = conn.Close()
		return nil, &remote.ConnectionError{Address: opts.Address, Err: fmt.Errorf("health check failed: %w", callError(err))}
	}
	return c, nil
}

// DefaultIdentity returns the identity recorded by the server for operator
// actions.
func DefaultIdentity() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("tuiporal@%s/%s", host, uuid.NewString()[:8])
}

func transportCredentials(opts *TLSOptions) (credentials.TransportCredentials, error) {
	if opts == nil || !opts.Enabled {
		return insecure.NewCredentials(), nil
	}
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if opts.CertPath != "" || opts.KeyPath != "" {
		if opts.CertPath == "" || opts.KeyPath == "" {
			return nil, errors.New("tls: cert_path and key_path must be set together")
		}
		cert, err := tls.LoadX509KeyPair(opts.CertPath, opts.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	if opts.CAPath != "" {
		pem, err := os.ReadFile(opts.CAPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", opts.CAPath)
		}
		cfg.RootCAs = pool
	}
	return credentials.NewTLS(cfg), nil
}

// bearerToken attaches an API key to every call.
type bearerToken struct {
	token  string
	secure bool
}

func (b bearerToken) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + b.token}, nil
}

func (b bearerToken) RequireTransportSecurity() bool {
	return b.secure
}

// callError strips the gRPC envelope so banners show the server's message.
func callError(err error) error {
	if s, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", s.Code(), s.Message())
	}
	return err
}

func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// ListPage returns one page of executions matching query.
func (c *Client) ListPage(ctx context.Context, namespace string, pageSize int, token []byte, query string) ([]remote.Workflow, []byte, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.service.ListWorkflowExecutions(ctx, &workflowservice.ListWorkflowExecutionsRequest{
		Namespace:     namespace,
		PageSize:      int32(pageSize),
		NextPageToken: token,
		Query:         query,
	})
	if err != nil {
		return nil, nil, callError(err)
	}
	workflows := make([]remote.Workflow, 0, len(resp.GetExecutions()))
	for _, info := range resp.GetExecutions() {
		workflows = append(workflows, convertExecution(info))
	}
	return workflows, resp.GetNextPageToken(), nil
}

// FindOne returns the first execution matching filter.
func (c *Client) FindOne(ctx context.Context, namespace, filter string) (remote.Workflow, bool, error) {
	workflows, _, err := c.ListPage(ctx, namespace, 1, nil, filter)
	if err != nil || len(workflows) == 0 {
		return remote.Workflow{}, false, err
	}
	return workflows[0], true, nil
}

// GetDetail returns one page of history events for an execution.
func (c *Client) GetDetail(ctx context.Context, namespace, workflowID, runID string, pageSize int, token []byte) ([]remote.Event, []byte, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.service.GetWorkflowExecutionHistory(ctx, &workflowservice.GetWorkflowExecutionHistoryRequest{
		Namespace:              namespace,
		Execution:              &commonpb.WorkflowExecution{WorkflowId: workflowID, RunId: runID},
		MaximumPageSize:        int32(pageSize),
		NextPageToken:          token,
		HistoryEventFilterType: enumspb.HISTORY_EVENT_FILTER_TYPE_ALL_EVENT,
	})
	if err != nil {
		return nil, nil, callError(err)
	}
	history := resp.GetHistory().GetEvents()
	evts := make([]remote.Event, 0, len(history))
	for _, ev := range history {
		evts = append(evts, convertEvent(ev))
	}
	return evts, resp.GetNextPageToken(), nil
}

// ListNamespaces returns one page of registered namespaces.
func (c *Client) ListNamespaces(ctx context.Context, pageSize int, token []byte) ([]remote.Namespace, []byte, error) {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	resp, err := c.service.ListNamespaces(ctx, &workflowservice.ListNamespacesRequest{
		PageSize:      int32(pageSize),
		NextPageToken: token,
	})
	if err != nil {
		return nil, nil, callError(err)
	}
	namespaces := make([]remote.Namespace, 0, len(resp.GetNamespaces()))
	for _, ns := range resp.GetNamespaces() {
		namespaces = append(namespaces, convertNamespace(ns.GetNamespaceInfo()))
	}
	return namespaces, resp.GetNextPageToken(), nil
}

// Mutate terminates, cancels or signals an execution.
func (c *Client) Mutate(ctx context.Context, namespace string, m remote.Mutation) error {
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	execution := &commonpb.WorkflowExecution{WorkflowId: m.WorkflowID, RunId: m.RunID}
	var err error
	switch m.Kind {
	case remote.MutationTerminate:
		_, err = c.service.TerminateWorkflowExecution(ctx, &workflowservice.TerminateWorkflowExecutionRequest{
			Namespace:         namespace,
			WorkflowExecution: execution,
			Reason:            m.Reason,
			Identity:          c.identity,
		})
	case remote.MutationCancel:
		_, err = c.service.RequestCancelWorkflowExecution(ctx, &workflowservice.RequestCancelWorkflowExecutionRequest{
			Namespace:         namespace,
			WorkflowExecution: execution,
			Identity:          c.identity,
			RequestId:         uuid.NewString(),
		})
	case remote.MutationSignal:
		_, err = c.service.SignalWorkflowExecution(ctx, &workflowservice.SignalWorkflowExecutionRequest{
			Namespace:         namespace,
			WorkflowExecution: execution,
			SignalName:        m.SignalName,
			Identity:          c.identity,
			RequestId:         uuid.NewString(),
		})
	default:
		return fmt.Errorf("unsupported mutation %s", m.Kind)
	}
	if err != nil {
		return callError(err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
